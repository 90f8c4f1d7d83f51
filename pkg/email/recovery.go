package email

import (
	"fmt"
	"html/template"
	"strings"
)

// recoveryTmpl is intentionally plain; branded template rendering lives
// outside this service.
var recoveryTmpl = template.Must(template.New("recovery").Parse(`<html>
<body>
<p>Hello,</p>
<p>Use the following code to recover access to your IdeaHub account:</p>
<p style="font-size:24px;letter-spacing:4px;"><strong>{{.Code}}</strong></p>
<p>The code expires in {{.TTL}}. If you did not request it, ignore this message.</p>
</body>
</html>`))

// RecoveryCodeEmail builds the send parameters for a password-recovery
// verification code message.
func RecoveryCodeEmail(to, code, ttl string) (SendEmailParams, error) {
	var sb strings.Builder
	if err := recoveryTmpl.Execute(&sb, struct{ Code, TTL string }{Code: code, TTL: ttl}); err != nil {
		return SendEmailParams{}, fmt.Errorf("render recovery email: %w", err)
	}

	return SendEmailParams{
		SendTo:   to,
		Subject:  "Your IdeaHub recovery code",
		BodyHTML: sb.String(),
		Tag:      "account-recovery",
	}, nil
}
