package notifications

import (
	"bytes"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/talesoul/talesoul-api/models"
)

const htmlLayout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
.content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
.details { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; }
.button { display: inline-block; padding: 12px 30px; background: #667eea; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
</style>
</head>
<body>
<div class="container">
<div class="header"><h1>{{.Heading}}</h1></div>
<div class="content">
<p>Hi {{.Name}},</p>
{{template "body" .}}
<p>Best regards,<br>The TaleSoul Team</p>
</div>
</div>
</body>
</html>{{end}}`

var htmlBodies = map[string]string{
	"booking_confirmed": `{{define "body"}}<p>Your mentorship session has been confirmed. We're excited for your upcoming session!</p>
<div class="details">
<h2>Session Details</h2>
<p><strong>Mentor:</strong> {{.Counterpart}}</p>
<p><strong>Date &amp; Time:</strong> {{.When}}</p>
<p><strong>Duration:</strong> {{.Duration}} minutes</p>
<p><strong>Price:</strong> ${{printf "%.2f" .Price}}</p>
{{if .MeetingLink}}<p><strong>Meeting Link:</strong> <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>{{end}}
</div>
<a href="{{.Link}}" class="button">View My Bookings</a>{{end}}`,

	"booking_cancelled": `{{define "body"}}<p>The session with {{.Counterpart}} scheduled for {{.When}} has been cancelled.</p>
<a href="{{.Link}}" class="button">View My Bookings</a>{{end}}`,

	"booking_reminder": `{{define "body"}}<p>This is a friendly reminder that your session with {{.Counterpart}} starts in one hour, at {{.When}}.</p>
{{if .MeetingLink}}<p><strong>Meeting Link:</strong> <a href="{{.MeetingLink}}">Join Session</a></p>{{end}}{{end}}`,

	"course_enrollment": `{{define "body"}}<p>Congratulations! You've successfully enrolled in the course.</p>
<div class="details">
<h2>{{.Title}}</h2>
{{if .Description}}<p>{{.Description}}</p>{{end}}
{{if .Duration}}<p><strong>Duration:</strong> {{.Duration}} minutes</p>{{end}}
</div>
<a href="{{.Link}}" class="button">Start Learning</a>{{end}}`,

	"mentor_decision": `{{define "body"}}{{if .Approved}}<p>Your mentor application has been approved. You can now publish your availability and accept bookings.</p>{{else}}<p>After review, your mentor application was not approved at this time.</p>{{end}}{{end}}`,

	"certificate_ready": `{{define "body"}}<p>You completed <strong>{{.Title}}</strong>. Your certificate is ready.</p>
<a href="{{.Link}}" class="button">Download Certificate</a>{{end}}`,
}

var textBodies = map[string]string{
	"booking_confirmed": `Hi {{.Name}},

Your mentorship session has been confirmed.

Session Details:
- Mentor: {{.Counterpart}}
- Date & Time: {{.When}}
- Duration: {{.Duration}} minutes
- Price: ${{printf "%.2f" .Price}}

Best regards,
The TaleSoul Team
`,
	"booking_cancelled": `Hi {{.Name}},

The session with {{.Counterpart}} scheduled for {{.When}} has been cancelled.

Best regards,
The TaleSoul Team
`,
	"booking_reminder": `Hi {{.Name}},

Your session with {{.Counterpart}} starts in one hour, at {{.When}}.
{{if .MeetingLink}}Meeting link: {{.MeetingLink}}
{{end}}
Best regards,
The TaleSoul Team
`,
	"course_enrollment": `Hi {{.Name}},

Congratulations! You've successfully enrolled in: {{.Title}}
{{if .Description}}
{{.Description}}
{{end}}
Best regards,
The TaleSoul Team
`,
	"mentor_decision": `Hi {{.Name}},

{{if .Approved}}Your mentor application has been approved.{{else}}Your mentor application was not approved at this time.{{end}}

Best regards,
The TaleSoul Team
`,
	"certificate_ready": `Hi {{.Name}},

You completed {{.Title}}. Download your certificate: {{.Link}}

Best regards,
The TaleSoul Team
`,
}

type templateData struct {
	Heading     string
	Name        string
	Counterpart string
	When        string
	Duration    int
	Price       float64
	MeetingLink string
	Title       string
	Description string
	Approved    bool
	Link        string
}

// Templates renders the transactional emails.
type Templates struct {
	frontendURL string
	html        map[string]*htmltemplate.Template
	text        map[string]*texttemplate.Template
}

func NewTemplates(frontendURL string) *Templates {
	t := &Templates{
		frontendURL: frontendURL,
		html:        make(map[string]*htmltemplate.Template),
		text:        make(map[string]*texttemplate.Template),
	}
	for name, body := range htmlBodies {
		t.html[name] = htmltemplate.Must(htmltemplate.Must(htmltemplate.New(name).Parse(htmlLayout)).Parse(body))
	}
	for name, body := range textBodies {
		t.text[name] = texttemplate.Must(texttemplate.New(name).Parse(body))
	}
	return t
}

func (t *Templates) render(name, subject string, to *models.User, data templateData) Message {
	data.Name = to.FullName

	var htmlBuf, textBuf bytes.Buffer
	if err := t.html[name].ExecuteTemplate(&htmlBuf, "layout", data); err != nil {
		htmlBuf.Reset()
	}
	if err := t.text[name].Execute(&textBuf, data); err != nil {
		textBuf.Reset()
	}
	return Message{
		To:      []Recipient{{Name: to.FullName, Email: to.Email}},
		Subject: subject,
		HTML:    htmlBuf.String(),
		Text:    textBuf.String(),
	}
}

func formatWhen(t time.Time) string {
	return t.UTC().Format("January 02, 2006 at 03:04 PM MST")
}

func (t *Templates) BookingConfirmed(b *models.Booking, user, mentor *models.User) Message {
	return t.render("booking_confirmed", "Booking Confirmed - TaleSoul", user, templateData{
		Heading:     "Booking Confirmed!",
		Counterpart: mentor.FullName,
		When:        formatWhen(b.ScheduledAt),
		Duration:    b.DurationMinutes,
		Price:       b.Price,
		MeetingLink: deref(b.MeetingLink),
		Link:        t.frontendURL + "/my-bookings",
	})
}

func (t *Templates) BookingCancelled(b *models.Booking, to, counterpart *models.User) Message {
	return t.render("booking_cancelled", "Booking Cancelled - TaleSoul", to, templateData{
		Heading:     "Booking Cancelled",
		Counterpart: counterpart.FullName,
		When:        formatWhen(b.ScheduledAt),
		Link:        t.frontendURL + "/my-bookings",
	})
}

func (t *Templates) BookingReminder(b *models.Booking, to, counterpart *models.User) Message {
	return t.render("booking_reminder", "Reminder: Your Session Starts in 1 Hour", to, templateData{
		Heading:     "Session Reminder",
		Counterpart: counterpart.FullName,
		When:        formatWhen(b.ScheduledAt),
		MeetingLink: deref(b.MeetingLink),
	})
}

func (t *Templates) CourseEnrollment(c *models.Course, user *models.User) Message {
	data := templateData{
		Heading:     "Welcome to Your Course!",
		Title:       c.Title,
		Description: deref(c.Description),
		Link:        t.frontendURL + "/my-courses",
	}
	if c.DurationMinutes != nil {
		data.Duration = *c.DurationMinutes
	}
	return t.render("course_enrollment", "Enrolled in "+c.Title+" - TaleSoul", user, data)
}

func (t *Templates) MentorDecision(user *models.User, approved bool) Message {
	heading := "Application Update"
	if approved {
		heading = "You're Approved!"
	}
	return t.render("mentor_decision", "Your Mentor Application - TaleSoul", user, templateData{
		Heading:  heading,
		Approved: approved,
	})
}

func (t *Templates) CertificateReady(user *models.User, c *models.Course, url string) Message {
	return t.render("certificate_ready", "Your Certificate for "+c.Title, user, templateData{
		Heading: "Congratulations!",
		Title:   c.Title,
		Link:    url,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
