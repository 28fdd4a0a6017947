package verification

import (
	"fmt"

	"github.com/staffdesk/identity/services/mail"
)

func verificationMessage(appName, appURL, email, firstName string, issued *IssuedToken) mail.Message {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", appURL, issued.Token)

	text := fmt.Sprintf(
		"Hi %s,\n\nPlease confirm your email address for %s by opening the link below:\n\n%s\n\nThe link expires at %s. If you did not sign up, you can ignore this email.\n",
		firstName, appName, verifyURL, issued.ExpiresAt.Format("Jan 2, 2006 15:04 MST"))

	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Please confirm your email address for %s:</p><p><a href=%q>Verify email address</a></p><p>The link expires at %s. If you did not sign up, you can ignore this email.</p>`,
		firstName, appName, verifyURL, issued.ExpiresAt.Format("Jan 2, 2006 15:04 MST"))

	return mail.Message{
		To:      email,
		Subject: fmt.Sprintf("Verify your email address for %s", appName),
		HTML:    html,
		Text:    text,
	}
}
