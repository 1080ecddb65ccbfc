// Package report lays out and renders the action plan document and the
// email that carries it.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/common/config"
	"github.com/rustybadge/after-sales-quiz/internal/quiz"
)

// Brand is the identity printed on plans and emails.
type Brand struct {
	Name         string
	Title        string
	Tagline      string
	ContactEmail string
	Website      string
}

// DefaultBrand is used when no report settings are configured.
func DefaultBrand() Brand {
	return Brand{
		Name:         "HUMBLEBEE",
		Title:        "After-Sales Performance Action Plan",
		Tagline:      "After-Sales Performance Experts",
		ContactEmail: "hello@humblebee.se",
		Website:      "www.humblebee.se",
	}
}

// BrandFromConfig fills unset fields from DefaultBrand.
func BrandFromConfig(cfg config.ReportConfig) Brand {
	b := DefaultBrand()
	if cfg.BrandName != "" {
		b.Name = cfg.BrandName
	}
	if cfg.Title != "" {
		b.Title = cfg.Title
	}
	if cfg.Tagline != "" {
		b.Tagline = cfg.Tagline
	}
	if cfg.ContactEmail != "" {
		b.ContactEmail = cfg.ContactEmail
	}
	if cfg.Website != "" {
		b.Website = cfg.Website
	}
	return b
}

// CompanyOrDefault returns the trimmed company or "Not specified".
func CompanyOrDefault(company string) string {
	if c := strings.TrimSpace(company); c != "" {
		return c
	}
	return "Not specified"
}

// Band colours a category score.
type Band int

const (
	BandWeak Band = iota
	BandFair
	BandStrong
)

// BandFor returns Strong from 80, Fair from 60, else Weak.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandStrong
	case score >= 60:
		return BandFair
	default:
		return BandWeak
	}
}

// RGB returns the text colour of the band.
func (b Band) RGB() (int, int, int) {
	switch b {
	case BandStrong:
		return 0, 128, 0
	case BandFair:
		return 255, 165, 0
	default:
		return 255, 0, 0
	}
}

// ScoreRow is one line of the category table.
type ScoreRow struct {
	Category quiz.Category
	Label    string
	Weight   string
	Score    int
	Band     Band
}

// Plan is the laid-out content of an action plan, independent of the output
// format.
type Plan struct {
	Brand       Brand
	Company     string
	Date        string
	Score       int
	Persona     string
	Blurb       string
	Rows        []ScoreRow
	Headline    string
	Items       []string
	NextSteps   []string
	GeneratedBy string
}

// RenderOptions controls the volatile parts of a plan.
type RenderOptions struct {
	Date  time.Time
	Brand *Brand
}

// BuildPlan lays out a result snapshot.
func BuildPlan(r quiz.Result, opts RenderOptions) Plan {
	brand := DefaultBrand()
	if opts.Brand != nil {
		brand = *opts.Brand
	}
	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}

	p := Plan{
		Brand:       brand,
		Company:     CompanyOrDefault(r.Company),
		Date:        date.Format("2006-01-02"),
		Score:       r.DisplayScore(),
		Persona:     r.Persona.Name,
		Blurb:       r.Persona.Blurb,
		Headline:    r.Recommendation.Headline,
		NextSteps:   quiz.NextSteps(),
		GeneratedBy: fmt.Sprintf("Generated by %s After-Sales Quiz", titleCase(brand.Name)),
	}

	for _, c := range quiz.Categories() {
		score := quiz.RoundScore(r.CategoryScores[c])
		p.Rows = append(p.Rows, ScoreRow{
			Category: c,
			Label:    c.Label(),
			Weight:   quiz.WeightLabel(c),
			Score:    score,
			Band:     BandFor(score),
		})
	}

	switch r.Recommendation.State {
	case quiz.StateQuickWins:
		for _, g := range r.Recommendation.Groups {
			p.Items = append(p.Items, fmt.Sprintf("%s (%d%%): %s", g.Label, quiz.RoundScore(g.Score), g.Primary))
		}
	case quiz.StateNextHorizon:
		for _, g := range r.Recommendation.Groups {
			p.Items = append(p.Items, fmt.Sprintf("%s: %s", g.Label, strings.Join(g.Actions, " ")))
		}
	default:
		p.Items = append(p.Items, r.Recommendation.Checklist...)
	}
	return p
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// AttachmentName returns the file name of the plan PDF for company,
// prefixed with the brand name.
func (b Brand) AttachmentName(company string) string {
	slug := slugify(company)
	if slug == "" {
		slug = "company"
	}
	name := "action-plan-" + slug + ".pdf"
	if prefix := slugify(b.Name); prefix != "" {
		name = prefix + "-" + name
	}
	return name
}
