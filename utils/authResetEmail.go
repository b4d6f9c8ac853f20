package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// SendResetCodeEmail mails the reset code to the user. The redirect URL
// points back at the login surface the reset was requested from.
func SendResetCodeEmail(email, code, redirectURL string) error {
	fromEmail := os.Getenv("SMTP_USER")

	m := gomail.NewMessage()
	m.SetHeader("From", fromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Bright Clinic Password Reset Code")

	m.SetBody("text/plain", "Your password reset code is: "+code+"\n\nEnter it at: "+redirectURL)

	htmlBody := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Password Reset Code</title>
		<style>
			body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
			.container { background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px; }
			h1 { color: #333333; }
			p { color: #666666; }
			.code { font-weight: bold; color: #007bff; font-size: 24px; }
		</style>
	</head>
	<body>
		<div class="container">
			<h1>Password Reset Code</h1>
			<p>Your password reset code is:</p>
			<p class="code">` + code + `</p>
			<p><a href="` + redirectURL + `">Continue resetting your password</a></p>
			<p>If you did not request a password reset, please ignore this email.</p>
		</div>
	</body>
	</html>
	`
	m.AddAlternative("text/html", htmlBody)

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT value: %w", err)
	}

	d := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	return d.DialAndSend(m)
}
