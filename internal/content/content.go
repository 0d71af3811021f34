// Package content holds the copy, images and service catalogue rendered by
// the site. The built-in content is embedded from site.yaml; a file passed
// to Load replaces it entirely.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var defaultSite []byte

// Site is everything the pages render.
type Site struct {
	Brand    string    `yaml:"brand"`
	Tagline  string    `yaml:"tagline"`
	Home     Home      `yaml:"home"`
	About    About     `yaml:"about"`
	Services []Service `yaml:"services"`
	FAQ      FAQ       `yaml:"faq"`
	Footer   Footer    `yaml:"footer"`
}

type Home struct {
	Headline     string        `yaml:"headline"`
	Subheadline  string        `yaml:"subheadline"`
	Portrait     string        `yaml:"portrait"`
	Prompts      []string      `yaml:"prompts"`
	Slideshow    []string      `yaml:"slideshow"`
	Testimonials []Testimonial `yaml:"testimonials"`
}

type Testimonial struct {
	Name     string `yaml:"name"`
	Quote    string `yaml:"quote"`
	Portrait string `yaml:"portrait"`
}

type About struct {
	Title      string   `yaml:"title"`
	Paragraphs []string `yaml:"paragraphs"`
}

// Service is one card on the services page and one choice on the booking form.
type Service struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

type FAQ struct {
	Title   string     `yaml:"title"`
	Entries []FAQEntry `yaml:"entries"`
}

type FAQEntry struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type Footer struct {
	Copyright string `yaml:"copyright"`
	Links     []Link `yaml:"links"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Default returns the embedded content.
func Default() (*Site, error) {
	return Parse(defaultSite)
}

// Load reads content from path, or the embedded content when path is empty.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates content YAML.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks for content the pages cannot render.
func (s *Site) Validate() error {
	var errs []error
	if s.Brand == "" {
		errs = append(errs, errors.New("brand is required"))
	}
	if len(s.Services) == 0 {
		errs = append(errs, errors.New("at least one service is required"))
	}
	seen := make(map[string]bool, len(s.Services))
	for i, svc := range s.Services {
		switch {
		case svc.Title == "":
			errs = append(errs, fmt.Errorf("service %d has no title", i))
		case seen[svc.Title]:
			errs = append(errs, fmt.Errorf("duplicate service %q", svc.Title))
		}
		seen[svc.Title] = true
	}
	for i, e := range s.FAQ.Entries {
		if e.Question == "" {
			errs = append(errs, fmt.Errorf("faq entry %d has no question", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid content: %w", errors.Join(errs...))
	}
	return nil
}

// ServiceTitles returns the service choices offered on the booking form.
func (s *Site) ServiceTitles() []string {
	titles := make([]string, len(s.Services))
	for i, svc := range s.Services {
		titles[i] = svc.Title
	}
	return titles
}
