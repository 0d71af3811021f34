package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultContent(t *testing.T) {
	site, err := Default()
	require.NoError(t, err)

	want := []string{
		"Wellness and Career Life Coaching",
		"Corporate Team Building",
		"Leadership and Resilience Programs",
	}
	if diff := cmp.Diff(want, site.ServiceTitles()); diff != "" {
		t.Errorf("ServiceTitles() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "What if your best became your average?", site.Home.Headline)
	assert.Len(t, site.Home.Prompts, 3)
	assert.Len(t, site.Home.Slideshow, 5)
	assert.Len(t, site.Home.Testimonials, 3)
	assert.Len(t, site.FAQ.Entries, 5)
	assert.Equal(t, site.FAQ.Entries[0].Answer, site.FAQ.Entries[4].Answer, "anchors resolve")
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
brand: Test Coaching
services:
  - title: Solo
faq:
  entries:
    - question: Why?
      answer: Because.
`), 0o600))

	site, err := Load(path)
	require.NoError(t, err)

	want := &Site{
		Brand:    "Test Coaching",
		Services: []Service{{Title: "Solo"}},
		FAQ:      FAQ{Entries: []FAQEntry{{Question: "Why?", Answer: "Because."}}},
	}
	if diff := cmp.Diff(want, site); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	site, err := Load("")
	require.NoError(t, err)
	assert.NotEmpty(t, site.Brand)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no brand", "services: [{title: A}]", "brand is required"},
		{"no services", "brand: B", "at least one service is required"},
		{"untitled service", "brand: B\nservices: [{description: x}]", "service 0 has no title"},
		{"duplicate service", "brand: B\nservices: [{title: A}, {title: A}]", `duplicate service "A"`},
		{"faq without question", "brand: B\nservices: [{title: A}]\nfaq: {entries: [{answer: x}]}", "faq entry 0 has no question"},
		{"bad yaml", "brand: [", "failed to parse content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFAQPanels(t *testing.T) {
	site := &Site{FAQ: FAQ{Entries: []FAQEntry{
		{Question: "a", Answer: "1"},
		{Question: "b", Answer: "2"},
		{Question: "c", Answer: "3"},
	}}}

	got := site.FAQPanels("panel1")
	want := []Panel{
		{Label: "panel0", Theme: "primary", Question: "a", Answer: "1"},
		{Label: "panel1", Theme: "secondary", Question: "b", Answer: "2", Expanded: true},
		{Label: "panel2", Theme: "primary", Question: "c", Answer: "3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FAQPanels() mismatch (-want +got):\n%s", diff)
	}

	for _, p := range site.FAQPanels("panel9") {
		assert.False(t, p.Expanded)
	}
}

func TestToggle(t *testing.T) {
	assert.Equal(t, "panel2", Toggle("", "panel2"))
	assert.Equal(t, "panel2", Toggle("panel0", "panel2"))
	assert.Equal(t, "", Toggle("panel2", "panel2"))
}
