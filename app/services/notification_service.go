// Package services provides external service integrations and technical concerns like notifications and sessions
package services

import (
	"fmt"
	"log"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/breezeline/interiors-api/config"
	"github.com/breezeline/interiors-api/models"
	"github.com/breezeline/interiors-api/utils"
)

// NotificationService sends lead notifications via email
type NotificationService interface {
	SendLeadAlert(lead *models.EstimationLead) error
	SendLeadConfirmation(lead *models.EstimationLead) error
}

// NotificationServiceImpl implements NotificationService
type NotificationServiceImpl struct {
	emailProvider EmailProvider
	adminEmail    string
}

// EmailProvider interface for email sending
type EmailProvider interface {
	SendEmail(email, subject, htmlBody string) error
}

// NewNotificationService creates a new notification service
func NewNotificationService(emailProvider EmailProvider, adminEmail string) NotificationService {
	return &NotificationServiceImpl{
		emailProvider: emailProvider,
		adminEmail:    adminEmail,
	}
}

// SendLeadAlert emails the new lead summary to the studio inbox
func (s *NotificationServiceImpl) SendLeadAlert(lead *models.EstimationLead) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}
	if s.adminEmail == "" {
		return fmt.Errorf("admin email not configured")
	}

	subject := fmt.Sprintf("New estimation lead #%d: %s (%s)", lead.ID, lead.ProjectType, lead.ServiceClass)
	return s.emailProvider.SendEmail(s.adminEmail, subject, leadAlertTemplate(lead))
}

// SendLeadConfirmation emails the quote back to the client, when they left an address
func (s *NotificationServiceImpl) SendLeadConfirmation(lead *models.EstimationLead) error {
	if s.emailProvider == nil {
		return fmt.Errorf("email provider not configured")
	}
	if lead.Email == nil || *lead.Email == "" {
		return fmt.Errorf("lead has no email address")
	}

	return s.emailProvider.SendEmail(*lead.Email, "Your Breezeline Interiors estimate", leadConfirmationTemplate(lead))
}

func leadAlertTemplate(lead *models.EstimationLead) string {
	return fmt.Sprintf(`
		<html>
        <body>
            <h2>New estimation request</h2>
            <p><b>Project:</b> %s (%s)</p>
            <p><b>Area:</b> %.2f sqm</p>
            <p><b>Estimated total:</b> %s</p>
            <p><b>Name:</b> %s</p>
            <p><b>Phone:</b> %s</p>
            <p><b>Email:</b> %s</p>
        </body>
        </html>
		`,
		lead.ProjectType, lead.ServiceClass, lead.AreaSqm, utils.FormatAED(lead.TotalFils),
		utils.Deref(lead.ContactName, "-"), utils.Deref(lead.Phone, "-"), utils.Deref(lead.Email, "-"))
}

func leadConfirmationTemplate(lead *models.EstimationLead) string {
	return fmt.Sprintf(`
		<html>
        <body>
            <h2>Thank you for your interest</h2>
            <p>Dear %s,</p>
            <p>Your estimate for a %s %s fit-out of %.2f sqm comes to <b>%s</b>.</p>
            <p>Our team will reach out shortly to discuss the details.</p>
            <br>
            <p>Warm regards,<br>Breezeline Interiors</p>
        </body>
        </html>
		`,
		clientSalutation(lead), lead.ServiceClass, lead.ProjectType, lead.AreaSqm, utils.FormatAED(lead.TotalFils))
}

func clientSalutation(lead *models.EstimationLead) string {
	if name := utils.Deref(lead.ContactName, ""); name != "" {
		return name
	}
	return "client"
}

// GomailEmailProvider sends email over SMTP
type GomailEmailProvider struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

// NewGomailEmailProvider creates an SMTP-backed email provider
func NewGomailEmailProvider(cfg *config.EmailConfig) EmailProvider {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &GomailEmailProvider{
		dialer:    d,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (p *GomailEmailProvider) SendEmail(email, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", p.fromEmail, p.fromName)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return p.dialer.DialAndSend(m)
}

// MockEmailProvider logs sends and records them for assertions
type MockEmailProvider struct {
	mu   sync.Mutex
	Sent []MockEmail
	Fail bool
}

// MockEmail is one captured send
type MockEmail struct {
	To      string
	Subject string
	Body    string
}

func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{}
}

func (p *MockEmailProvider) SendEmail(email, subject, htmlBody string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Fail {
		return fmt.Errorf("mock email failure")
	}
	p.Sent = append(p.Sent, MockEmail{To: email, Subject: subject, Body: htmlBody})
	log.Printf("Email sent to %s [%s]", email, subject)
	return nil
}

// SentCount returns the number of captured sends
func (p *MockEmailProvider) SentCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Sent)
}

// LastSent returns the most recent captured send, or nil
func (p *MockEmailProvider) LastSent() *MockEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Sent) == 0 {
		return nil
	}
	m := p.Sent[len(p.Sent)-1]
	return &m
}
