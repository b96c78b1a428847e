package services

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

//go:embed templates/cv.html
var cvTemplates embed.FS

var cvTemplate = template.Must(template.ParseFS(cvTemplates, "templates/cv.html"))

// PDFRenderer turns a standalone HTML document into a PDF.
type PDFRenderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

type ChromedpRenderer struct {
	chromePath string
	timeout    time.Duration
}

func NewChromedpRenderer(chromePath string) *ChromedpRenderer {
	return &ChromedpRenderer{chromePath: chromePath, timeout: 60 * time.Second}
}

func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	runCtx, cancelRun := context.WithTimeout(cctx, r.timeout)
	defer cancelRun()

	tmpDir, err := os.MkdirTemp("", "cv-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	var pdf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

type cvCategory struct {
	Name         string
	Technologies []string
}

type cvDocument struct {
	Owner       string
	Experiences []models.Experience
	Categories  []cvCategory
}

// BuildCVHTML renders the CV page from the timeline and the tech stack grouped by category.
func BuildCVHTML(owner string, experiences []models.Experience, technologies []models.Technology) (string, error) {
	doc := cvDocument{Owner: owner, Experiences: experiences}

	index := map[string]int{}
	for _, t := range technologies {
		i, ok := index[t.Category]
		if !ok {
			i = len(doc.Categories)
			index[t.Category] = i
			doc.Categories = append(doc.Categories, cvCategory{Name: t.Category})
		}
		doc.Categories[i].Technologies = append(doc.Categories[i].Technologies, t.Name)
	}

	var buf bytes.Buffer
	if err := cvTemplate.Execute(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CVService renders /cv.pdf and keeps the last PDF until the content it was built from changes.
type CVService struct {
	owner    string
	renderer PDFRenderer
	logger   zerolog.Logger

	mu      sync.Mutex
	version time.Time
	pdf     []byte
}

func NewCVService(owner string, renderer PDFRenderer) *CVService {
	return &CVService{
		owner:    owner,
		renderer: renderer,
		logger:   log.With().Str("service", "cv").Logger(),
	}
}

// PDF returns the CV for the content snapshot identified by version.
func (s *CVService) PDF(ctx context.Context, version time.Time, experiences []models.Experience, technologies []models.Technology) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pdf != nil && s.version.Equal(version) {
		return s.pdf, nil
	}

	html, err := BuildCVHTML(s.owner, experiences, technologies)
	if err != nil {
		return nil, errs.NewRenderError("cv.html", err)
	}

	start := time.Now()
	pdf, err := s.renderer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		s.logger.Error().Err(err).Msg("PDF rendering failed")
		return nil, errs.NewRenderError("cv.pdf", err)
	}
	s.logger.Info().Dur("duration", time.Since(start)).Int("bytes", len(pdf)).Msg("rendered CV")

	s.version = version
	s.pdf = pdf
	return pdf, nil
}
