package report

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// DefaultSubject is the subject of plan emails when none is configured.
const DefaultSubject = "Your Humblebee After-Sales Action Plan"

// PlanEmail is the data shown in the plan email.
type PlanEmail struct {
	To          string
	Company     string
	TotalScore  int
	PersonaName string
}

// Email is a composed message body pair.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

var planContents = []string{
	"Detailed category breakdown with scores",
	"Personalized recommendations based on your results",
	"90-day implementation roadmap",
	"Next steps to improve your after-sales performance",
}

var emailNextSteps = []string{
	"Review your action plan (attached PDF)",
	"Focus on categories below 80% first",
	"Implement the quick wins over the next 30 days",
	"Re-take the quiz to measure your progress",
}

type emailView struct {
	Brand     Brand
	To        string
	Company   string
	Score     int
	Persona   string
	Contents  []string
	NextSteps []string
}

var htmlEmail = htmltemplate.Must(htmltemplate.New("plan.html").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <div style="background: #3b82f6; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="color: white; margin: 0; font-size: 28px;">{{.Brand.Name}}</h1>
    <p style="color: white; margin: 10px 0 0 0; font-size: 16px;">{{.Brand.Tagline}}</p>
  </div>
  <div style="background: white; padding: 30px; border: 1px solid #e5e7eb;">
    <h2 style="color: #1f2937; margin-top: 0;">Your Action Plan is Ready!</h2>
    <p>Hi there,</p>
    <p>Thanks for completing our After-Sales Quiz! Your personalized action plan is attached to this email.</p>
    <div style="background: #f5f5f5; padding: 20px; border-radius: 8px; margin: 20px 0;">
      <h3 style="margin-top: 0;">Quiz Results Summary</h3>
      <p><strong>Company:</strong> {{.Company}}</p>
      <p><strong>Overall Score:</strong> {{.Score}}%</p>
      <p><strong>Persona:</strong> {{.Persona}}</p>
    </div>
    <h3>What's in Your Action Plan</h3>
    <ul>{{range .Contents}}
      <li>{{.}}</li>{{end}}
    </ul>
    <p><strong>Next Steps:</strong></p>
    <ol>{{range .NextSteps}}
      <li>{{.}}</li>{{end}}
    </ol>
    <p>Need help implementing any of these recommendations? We're here to support you!</p>
    <p>Best regards,<br>The {{.Brand.Name}} Team</p>
  </div>
  <div style="background: #1f2937; padding: 20px; text-align: center; border-radius: 0 0 10px 10px;">
    <span style="color: white; font-size: 14px;"><strong>{{.Brand.Name}}</strong></span>
    <p style="color: #9ca3af; margin: 5px 0 0 0; font-size: 12px;">{{.Brand.ContactEmail}} | {{.Brand.Website}}</p>
    <hr style="margin: 15px 0; border: none; border-top: 1px solid #374151;">
    <p style="color: #6b7280; margin: 0; font-size: 11px;">This email was sent to {{.To}}. If you didn't expect this, please ignore it.</p>
  </div>
</div>
`))

var textEmail = texttemplate.Must(texttemplate.New("plan.txt").
	Funcs(texttemplate.FuncMap{"inc": func(i int) int { return i + 1 }}).
	Parse(`{{.Brand.Name}} - {{.Brand.Tagline}}

Your Action Plan is Ready!

Thanks for completing our After-Sales Quiz! Your personalized action plan is attached to this email.

Company: {{.Company}}
Overall Score: {{.Score}}%
Persona: {{.Persona}}

What's in Your Action Plan
{{range .Contents}}- {{.}}
{{end}}
Next Steps
{{range $i, $s := .NextSteps}}{{inc $i}}. {{$s}}
{{end}}
Best regards,
The {{.Brand.Name}} Team
{{.Brand.ContactEmail}} | {{.Brand.Website}}

This email was sent to {{.To}}. If you didn't expect this, please ignore it.
`))

// ComposeEmail renders the plan email. An empty subject falls back to
// DefaultSubject.
func ComposeEmail(brand Brand, subject string, e PlanEmail) (Email, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	view := emailView{
		Brand:     brand,
		To:        e.To,
		Company:   CompanyOrDefault(e.Company),
		Score:     e.TotalScore,
		Persona:   e.PersonaName,
		Contents:  planContents,
		NextSteps: emailNextSteps,
	}

	var html, text bytes.Buffer
	if err := htmlEmail.Execute(&html, view); err != nil {
		return Email{}, fmt.Errorf("render html body: %w", err)
	}
	if err := textEmail.Execute(&text, view); err != nil {
		return Email{}, fmt.Errorf("render text body: %w", err)
	}
	return Email{Subject: subject, HTML: html.String(), Text: text.String()}, nil
}
