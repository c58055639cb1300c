package service

import (
	"fmt"
	"log"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/config"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/pkg"
)

// Notifier 录取通知；返回是否发送成功，失败只影响 EmailSent 标志，不回滚评审
type Notifier interface {
	SendJobApplicationAccepted(toEmail, memberName, jobTitle, crewName, ticketLink string) bool
}

// EmailService SMTP 录取通知
type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendJobApplicationAccepted(toEmail, memberName, jobTitle, crewName, ticketLink string) bool {
	if toEmail == "" {
		return false
	}

	subject := acceptedSubject(jobTitle, crewName)
	body := acceptedBody(memberName, jobTitle, crewName, ticketLink)
	if err := pkg.SendEmail(s.cfg, toEmail, subject, body); err != nil {
		log.Printf("email: accepted notification to %s failed: %v", toEmail, err)
		return false
	}
	return true
}

func acceptedSubject(jobTitle, crewName string) string {
	return fmt.Sprintf("Din ansøgning til %s hos %s er godkendt!", jobTitle, crewName)
}

func acceptedBody(memberName, jobTitle, crewName, ticketLink string) string {
	greeting := "Hej"
	if memberName != "" {
		greeting = "Hej " + memberName
	}
	body := fmt.Sprintf(`<p>%s,</p>
<p>Din ansøgning til <strong>%s</strong> hos <strong>%s</strong> er godkendt!</p>`, greeting, jobTitle, crewName)
	if ticketLink != "" {
		body += fmt.Sprintf(`
<p>Du kan hente din billet her: <a href="%s">%s</a></p>`, ticketLink, ticketLink)
	}
	body += `
<p>Vi glæder os til at se dig!</p>
<p>De bedste hilsner<br/>Frivilligholdet</p>`
	return body
}

// NoopNotifier 本地/测试环境不发信
type NoopNotifier struct{}

func (NoopNotifier) SendJobApplicationAccepted(toEmail, memberName, jobTitle, crewName, ticketLink string) bool {
	log.Printf("email: skipping accepted notification to %s (noop notifier)", toEmail)
	return false
}

var _ Notifier = (*EmailService)(nil)
var _ Notifier = NoopNotifier{}
