package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/resend/resend-go/v2"
)

// ResendMailer sends the transactional auth emails through the Resend API.
// Links point at the frontend, which calls back into the API with the token.
type ResendMailer struct {
	client  *resend.Client
	from    string
	baseURL string
}

func NewResendMailer(apiKey string, from string, baseURL string) *ResendMailer {
	return &ResendMailer{
		client:  resend.NewClient(apiKey),
		from:    from,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (m *ResendMailer) SendRegistrationEmail(ctx context.Context, email string, token string) error {
	link := fmt.Sprintf("%s/complete-registration?token=%s", m.baseURL, token)
	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Complete Your Registration</h2>
			<p>Hello,</p>
			<p>To complete your account setup, please follow the link below and provide your name and password:</p>
			<p><a href="%s">Complete Registration</a></p>
			<p>This link will expire in 30 minutes.</p>
		</div>`, link)
	text := fmt.Sprintf("Complete your registration: %s", link)
	return m.send(ctx, email, "Complete Your Registration", html, text)
}

func (m *ResendMailer) SendVerificationEmail(ctx context.Context, email string, name string, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", m.baseURL, token)
	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Email Verification Required</h2>
			<p>Dear %s,</p>
			<p>Please verify your email address by following the link below:</p>
			<p><a href="%s">Verify Email Address</a></p>
			<p>This link will expire in 10 minutes.</p>
		</div>`, name, link)
	text := fmt.Sprintf("Verify your email: %s", link)
	return m.send(ctx, email, "Please Verify Your Email Address", html, text)
}

func (m *ResendMailer) SendPasswordResetEmail(ctx context.Context, email string, name string, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.baseURL, token)
	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Password Reset Request</h2>
			<p>Dear %s,</p>
			<p>We received a request to reset your password. If you didn't make this request, please ignore this email.</p>
			<p><a href="%s">Reset Password</a></p>
			<p>This link will expire in 10 minutes.</p>
		</div>`, name, link)
	text := fmt.Sprintf("Reset your password: %s", link)
	return m.send(ctx, email, "Password Reset Request", html, text)
}

func (m *ResendMailer) SendWelcomeEmail(ctx context.Context, email string, name string) error {
	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
			<h2>Welcome!</h2>
			<p>Dear %s,</p>
			<p>Thank you for joining. We're excited to have you on board!</p>
			<p><a href="%s">Get Started</a></p>
		</div>`, name, m.baseURL)
	text := fmt.Sprintf("Welcome aboard, %s!", name)
	return m.send(ctx, email, "Welcome to Our Platform!", html, text)
}

func (m *ResendMailer) send(_ context.Context, to string, subject string, html string, text string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
		Text:    text,
	}
	_, err := m.client.Emails.Send(params)
	return err
}
