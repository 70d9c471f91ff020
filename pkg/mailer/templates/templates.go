package templates

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
)

// Template kinds understood by the email worker.
const (
	Welcome             = "welcome"
	EnrollmentConfirmed = "enrollment_confirmed"
	SessionCancelled    = "session_cancelled"
)

type def struct {
	subject string
	text    string
	html    string
}

var registry = map[string]def{
	Welcome: {
		subject: "Welcome to OrthoLink",
		text: "Hi {{.Name}},\n\n" +
			"Your OrthoLink account is ready. Browse courses, case studies and live " +
			"sessions from colleagues across the network, and add your practice to the " +
			"professional map when you are ready.\n\nThe OrthoLink team",
		html: `<p>Hi {{.Name}},</p>
<p>Your OrthoLink account is ready. Browse courses, case studies and live sessions
from colleagues across the network, and add your practice to the professional map
when you are ready.</p>
<p>The OrthoLink team</p>`,
	},
	EnrollmentConfirmed: {
		subject: "Enrollment confirmed",
		text: "Hi {{.Name}},\n\n" +
			"You are enrolled in \"{{.CourseTitle}}\". Your progress is tracked on your " +
			"dashboard; the course is available immediately.\n\nThe OrthoLink team",
		html: `<p>Hi {{.Name}},</p>
<p>You are enrolled in &quot;{{.CourseTitle}}&quot;. Your progress is tracked on your
dashboard; the course is available immediately.</p>
<p>The OrthoLink team</p>`,
	},
	SessionCancelled: {
		subject: "Live session cancelled",
		text: "Hi {{.Name}},\n\n" +
			"The live session \"{{.SessionTitle}}\" scheduled for {{.ScheduledAt}} has " +
			"been cancelled by the host.\n\nThe OrthoLink team",
		html: `<p>Hi {{.Name}},</p>
<p>The live session &quot;{{.SessionTitle}}&quot; scheduled for {{.ScheduledAt}} has
been cancelled by the host.</p>
<p>The OrthoLink team</p>`,
	},
}

// Render produces subject, text and HTML bodies for a known template kind.
func Render(kind string, data map[string]any) (subject, text, html string, err error) {
	d, ok := registry[kind]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", kind)
	}

	tt, err := texttpl.New(kind).Parse(d.text)
	if err != nil {
		return "", "", "", err
	}
	var tb bytes.Buffer
	if err := tt.Execute(&tb, data); err != nil {
		return "", "", "", err
	}

	ht, err := htmltpl.New(kind).Parse(d.html)
	if err != nil {
		return "", "", "", err
	}
	var hb bytes.Buffer
	if err := ht.Execute(&hb, data); err != nil {
		return "", "", "", err
	}

	return d.subject, tb.String(), hb.String(), nil
}
