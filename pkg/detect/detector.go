package detect

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/nillion-vault/vault-engine/pkg/models"
)

// DefaultExcludedSites is the built-in denylist of consumer/media/social
// domains where detection never runs.
var DefaultExcludedSites = []string{
	"youtube.com",
	"youtu.be",
	"netflix.com",
	"hulu.com",
	"disney.com",
	"amazon.com",
	"twitch.tv",
	"facebook.com",
	"instagram.com",
	"tiktok.com",
	"twitter.com",
	"x.com",
	"reddit.com",
	"pinterest.com",
	"snapchat.com",
	"discord.com",
	"zoom.us",
	"teams.microsoft.com",
	"meet.google.com",
	"webex.com",
}

// uploadAreaBaseline is the minimum score assigned to a recognized
// drag/drop or upload widget.
const uploadAreaBaseline = 8

// maxVisibleText bounds how much element text feeds the scorer.
const maxVisibleText = 200

// Page is a captured snapshot of the document under inspection.
type Page struct {
	Domain string
	Root   *html.Node
}

// ParsePage parses an HTML snapshot for the given domain.
func ParsePage(domain string, r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Page{Domain: strings.ToLower(domain), Root: root}, nil
}

// Config controls a Detector.
type Config struct {
	// ExcludedSites overrides the default denylist when non-empty.
	ExcludedSites []string

	// FormBuilderHeuristics enables label recovery for form-builder
	// platforms that hide field identity behind generated class names.
	FormBuilderHeuristics bool
}

// Detector walks a page snapshot, extracts field descriptors and returns
// scored candidates ordered by descending score then document order.
type Detector struct {
	excluded    []string
	formBuilder bool
	logger      *zap.Logger
}

// NewDetector creates a Detector.
func NewDetector(cfg Config, logger *zap.Logger) *Detector {
	excluded := cfg.ExcludedSites
	if len(excluded) == 0 {
		excluded = DefaultExcludedSites
	}
	return &Detector{
		excluded:    excluded,
		formBuilder: cfg.FormBuilderHeuristics,
		logger:      logger.Named("detector"),
	}
}

// Excluded reports whether detection is denied for the domain outright.
func (d *Detector) Excluded(domain string) bool {
	domain = strings.ToLower(domain)
	for _, site := range d.excluded {
		if strings.Contains(domain, site) {
			return true
		}
	}
	return false
}

// Detect returns the scored candidates for the page. Denylisted domains
// short-circuit before any scan; zero-score fields are dropped.
func (d *Detector) Detect(page *Page) []models.FieldCandidate {
	if page == nil || page.Root == nil {
		return nil
	}
	if d.Excluded(page.Domain) {
		d.logger.Debug("Skipping excluded site", zap.String("domain", page.Domain))
		return nil
	}

	formBuilderPage := d.formBuilder && isFormBuilderDomain(page.Domain)

	var candidates []models.FieldCandidate
	seen := make(map[*html.Node]bool)
	order := 0

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && !seen[n] {
			if cand, ok := d.inspect(n, formBuilderPage); ok {
				seen[n] = true
				cand.DocumentOrder = order
				order++
				candidates = append(candidates, cand)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(page.Root)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	d.logger.Debug("Detection pass complete",
		zap.String("domain", page.Domain),
		zap.Int("candidates", len(candidates)))
	return candidates
}

// inspect classifies a single element and scores it. Returns false when the
// element is neither a form field nor an upload area, or scores zero.
func (d *Detector) inspect(n *html.Node, formBuilderPage bool) (models.FieldCandidate, bool) {
	switch n.Data {
	case "input", "textarea", "select":
		return d.inspectFormField(n, formBuilderPage)
	case "div", "button", "span", "section", "label":
		return d.inspectUploadArea(n)
	}
	return models.FieldCandidate{}, false
}

func (d *Detector) inspectFormField(n *html.Node, formBuilderPage bool) (models.FieldCandidate, bool) {
	fieldType := "text"
	switch n.Data {
	case "textarea":
		fieldType = "textarea"
	case "input":
		if t := getAttr(n, "type"); t != "" {
			fieldType = strings.ToLower(t)
		}
	}
	switch fieldType {
	case "hidden", "submit", "button", "checkbox", "radio", "password":
		return models.FieldCandidate{}, false
	}

	name := firstNonEmpty(
		getAttr(n, "name"),
		getAttr(n, "id"),
		getAttr(n, "placeholder"),
		getAttr(n, "aria-label"),
		getAttr(n, "class"),
	)

	// Form-builder platforms bury field identity in generated class
	// names; recover the label from the nearest labeled container.
	if formBuilderPage {
		if label := labelFromContainer(n); label != "" {
			name = label
		}
	}

	accept := getAttr(n, "accept")
	text := visibleText(n)

	score := Score(name, fieldType, accept, text)
	if score == 0 {
		return models.FieldCandidate{}, false
	}

	return models.FieldCandidate{
		Element: n,
		Name:    name,
		Type:    models.FieldType(fieldType),
		Accept:  accept,
		Score:   score,
	}, true
}

func (d *Detector) inspectUploadArea(n *html.Node) (models.FieldCandidate, bool) {
	class := strings.ToLower(getAttr(n, "class"))
	id := strings.ToLower(getAttr(n, "id"))
	testID := strings.ToLower(getAttr(n, "data-testid"))
	text := visibleText(n)
	textLower := strings.ToLower(text)

	attrHit := containsAny(class, "upload", "drop", "file") ||
		containsAny(id, "upload", "file", "resume", "cv") ||
		containsAny(testID, "upload", "file")
	textHit := containsAny(textLower, "upload", "resume", "cv", "document", "file", "drop")
	if !attrHit && !textHit {
		return models.FieldCandidate{}, false
	}

	// Containers with a real file input inside are reported through the
	// input itself, not the wrapper.
	if hasFileInput(n) {
		return models.FieldCandidate{}, false
	}

	name := firstNonEmpty(getAttr(n, "id"), getAttr(n, "class"), "upload-area")
	score := Score(name, string(models.FieldTypeUploadArea), "", text)
	if score < uploadAreaBaseline {
		score = uploadAreaBaseline
	}

	return models.FieldCandidate{
		Element: n,
		Name:    name,
		Type:    models.FieldTypeUploadArea,
		Score:   score,
	}, true
}

func hasFileInput(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "input" &&
			strings.EqualFold(getAttr(c, "type"), "file") {
			return true
		}
		if hasFileInput(c) {
			return true
		}
	}
	return false
}

// visibleText collects descendant text content, capped for scoring.
func visibleText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if sb.Len() >= maxVisibleText {
			return
		}
		if node.Type == html.TextNode {
			if trimmed := strings.TrimSpace(node.Data); trimmed != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(trimmed)
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	text := sb.String()
	if len(text) > maxVisibleText {
		text = text[:maxVisibleText]
	}
	return text
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
