// Package content turns fetched pages into readable article content for the
// fulltext endpoint. Extraction runs in two stages: readability isolates the
// main article, then the result is rendered as markdown, plain text or HTML.
package content

import (
	"context"
	"log/slog"
	nurl "net/url"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/nostalgiatan/see/engine"
	"github.com/nostalgiatan/see/models"
)

// minArticleChars is the minimum TextContent length for readability output
// to be considered valid. Below it the algorithm most likely missed the
// article, so the page is used as-is.
const minArticleChars = 50

// Extractor fetches pages over the shared HTTP client and extracts their
// article content. The markdown converter is goroutine-safe and reused
// across requests.
type Extractor struct {
	client *engine.Client
	conv   *converter.Converter
	log    *slog.Logger
}

// NewExtractor builds an Extractor on the shared HTTP client.
func NewExtractor(client *engine.Client) *Extractor {
	return &Extractor{
		client: client,
		conv:   newMarkdownConverter(),
		log:    slog.With("component", "content"),
	}
}

// newMarkdownConverter configures html-to-markdown: the base plugin strips
// script/style/head noise, commonmark renders the usual constructs, and the
// table plugin keeps tabular data intact with minimal cell padding.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// Extract fetches the requested page and extracts its content in the
// requested format. The request timeout bounds the fetch and extraction
// together.
func (e *Extractor) Extract(ctx context.Context, req models.FulltextRequest) (*models.FulltextResponse, error) {
	req.Defaults()
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(req.Timeout)*time.Second)
	defer cancel()

	page, err := e.client.Fetch(ctx, req.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.FromHTML(page.HTML, page.FinalURL, req.Format)
	if err != nil {
		return nil, err
	}
	if resp.Title == "" {
		resp.Title = page.Title
	}
	resp.TotalMs = time.Since(start).Milliseconds()

	e.log.Info("fulltext extracted",
		"url", req.URL,
		"format", req.Format,
		"words", resp.WordCount,
		"elapsed_ms", resp.TotalMs,
	)
	return resp, nil
}

// FromHTML extracts article content from already-fetched markup. Split out
// from Extract so extraction is exercisable without a network fetch.
func (e *Extractor) FromHTML(rawHTML, sourceURL, format string) (*models.FulltextResponse, error) {
	stripped := stripNoise(rawHTML)
	article, isolated := extractArticle(stripped, sourceURL)
	if !isolated {
		e.log.Warn("readability found no article, serving page as-is", "url", sourceURL)
	}

	var content string
	switch format {
	case "html":
		content = article.Content
	case "text":
		content = article.TextContent
	default:
		md, err := e.conv.ConvertString(article.Content, converter.WithDomain(sourceURL))
		if err != nil {
			return nil, models.NewSearchError(models.ErrCodeReadability, "markdown conversion failed", err)
		}
		content = md
	}

	return &models.FulltextResponse{
		Success:   true,
		URL:       sourceURL,
		Title:     article.Title,
		Byline:    article.Byline,
		Excerpt:   article.Excerpt,
		SiteName:  article.SiteName,
		Content:   content,
		WordCount: len(strings.Fields(article.TextContent)),
	}, nil
}

// extractArticle runs the Mozilla Readability algorithm. When the source
// URL does not parse, extraction errors, or the result is shorter than
// minArticleChars, the stripped page stands in for the article and the
// second return is false.
func extractArticle(pageHTML, sourceURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		return fallbackArticle(pageHTML), false
	}

	article, err := readability.FromReader(strings.NewReader(pageHTML), parsedURL)
	if err != nil {
		return fallbackArticle(pageHTML), false
	}

	if len(strings.TrimSpace(article.TextContent)) < minArticleChars {
		return fallbackArticle(pageHTML), false
	}

	return article, true
}

// fallbackArticle wraps page HTML into an Article so the format stage works
// uniformly whether or not readability succeeded.
func fallbackArticle(pageHTML string) readability.Article {
	return readability.Article{
		Content:     pageHTML,
		TextContent: flattenText(pageHTML),
	}
}

// stripNoise removes markup that never carries article text. Headers,
// footers and sidebars are left for readability's scoring to judge.
func stripNoise(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	doc.Find("script, style, noscript, iframe, nav").Remove()

	out, err := doc.Html()
	if err != nil {
		return html
	}
	return out
}

// flattenText reduces markup to its whitespace-collapsed text content.
func flattenText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
