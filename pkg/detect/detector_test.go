package detect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/nillion-vault/vault-engine/pkg/models"
)

func parseTestPage(t *testing.T, domain, body string) *Page {
	t.Helper()
	page, err := ParsePage(domain, strings.NewReader(body))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return page
}

func newTestDetector(t *testing.T, cfg Config) *Detector {
	t.Helper()
	return NewDetector(cfg, zaptest.NewLogger(t))
}

func TestDetect_JobApplicationForm(t *testing.T) {
	page := parseTestPage(t, "careers.example.com", `
		<form>
			<input type="text" name="fullname" placeholder="Full name">
			<input type="email" name="email">
			<input type="tel" name="phone">
			<input type="file" name="resume" accept=".pdf,.doc">
			<input type="password" name="password">
			<input type="hidden" name="csrf">
			<input type="submit" value="Apply">
		</form>`)

	candidates := newTestDetector(t, Config{}).Detect(page)

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"resume", "fullname", "email", "phone"}, names,
		"ordered by descending score, hidden/submit/password skipped")
	assert.Equal(t, models.FieldTypeFile, candidates[0].Type)
	assert.Equal(t, ".pdf,.doc", candidates[0].Accept)
}

func TestDetect_ZeroScoreFieldsDropped(t *testing.T) {
	page := parseTestPage(t, "example.com", `
		<form>
			<input type="text" name="favorite_color">
			<input type="text" name="email">
		</form>`)

	candidates := newTestDetector(t, Config{}).Detect(page)

	assert.Len(t, candidates, 1)
	assert.Equal(t, "email", candidates[0].Name)
}

func TestDetect_ExcludedSite(t *testing.T) {
	page := parseTestPage(t, "www.youtube.com", `
		<form><input type="email" name="email"></form>`)

	candidates := newTestDetector(t, Config{}).Detect(page)

	assert.Nil(t, candidates, "denylisted domains short-circuit")
}

func TestExcluded_SubstringMatch(t *testing.T) {
	d := newTestDetector(t, Config{})

	assert.True(t, d.Excluded("youtube.com"))
	assert.True(t, d.Excluded("music.youtube.com"))
	assert.True(t, d.Excluded("teams.microsoft.com"))
	assert.False(t, d.Excluded("careers.example.com"))
}

func TestExcluded_CustomList(t *testing.T) {
	d := newTestDetector(t, Config{ExcludedSites: []string{"internal.corp"}})

	assert.True(t, d.Excluded("wiki.internal.corp"))
	assert.False(t, d.Excluded("youtube.com"), "custom list replaces the default")
}

func TestDetect_UploadArea(t *testing.T) {
	page := parseTestPage(t, "jobs.example.com", `
		<div class="upload-dropzone">Drop your resume here or click to browse</div>`)

	candidates := newTestDetector(t, Config{}).Detect(page)

	assert.Len(t, candidates, 1)
	assert.Equal(t, models.FieldTypeUploadArea, candidates[0].Type)
	assert.GreaterOrEqual(t, candidates[0].Score, uploadAreaBaseline)
}

func TestDetect_UploadAreaWithFileInputReportsInputOnly(t *testing.T) {
	page := parseTestPage(t, "jobs.example.com", `
		<div class="upload-dropzone">
			Drop your resume here
			<input type="file" name="resume">
		</div>`)

	candidates := newTestDetector(t, Config{}).Detect(page)

	assert.Len(t, candidates, 1)
	assert.Equal(t, models.FieldTypeFile, candidates[0].Type)
	assert.Equal(t, "resume", candidates[0].Name)
}

func TestDetect_StableOrderOnEqualScores(t *testing.T) {
	page := parseTestPage(t, "example.com", `
		<form>
			<input type="text" name="address" id="first">
			<input type="text" name="location" id="second">
		</form>`)

	candidates := newTestDetector(t, Config{}).Detect(page)

	assert.Len(t, candidates, 2)
	assert.Equal(t, candidates[0].Score, candidates[1].Score)
	assert.Equal(t, "address", candidates[0].Name, "document order breaks score ties")
	assert.Less(t, candidates[0].DocumentOrder, candidates[1].DocumentOrder)
}

func TestDetect_FormBuilderLabelRecovery(t *testing.T) {
	body := `
		<div role="listitem">
			<div role="heading">Email address</div>
			<input type="text" class="whsOnd zHQkBf">
		</div>`

	t.Run("enabled on form builder domain", func(t *testing.T) {
		page := parseTestPage(t, "docs.google.com", body)
		candidates := newTestDetector(t, Config{FormBuilderHeuristics: true}).Detect(page)

		assert.Len(t, candidates, 1)
		assert.Equal(t, "Email address", candidates[0].Name)
	})

	t.Run("disabled", func(t *testing.T) {
		page := parseTestPage(t, "docs.google.com", body)
		candidates := newTestDetector(t, Config{FormBuilderHeuristics: false}).Detect(page)

		assert.Empty(t, candidates, "generated class names score zero without recovery")
	})

	t.Run("ordinary domain unaffected", func(t *testing.T) {
		page := parseTestPage(t, "example.com", body)
		candidates := newTestDetector(t, Config{FormBuilderHeuristics: true}).Detect(page)

		assert.Empty(t, candidates)
	})
}

func TestDetect_NilPage(t *testing.T) {
	d := newTestDetector(t, Config{})

	assert.Nil(t, d.Detect(nil))
	assert.Nil(t, d.Detect(&Page{Domain: "example.com"}))
}
