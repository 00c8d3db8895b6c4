package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/weblease/weblease-backend/internal/domain"
	"github.com/weblease/weblease-backend/internal/util"
	"gopkg.in/gomail.v2"
)

// Mailer sends a plain-text email
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends mail through a configured SMTP relay
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers a plain-text message
func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// ReminderService emails clients whose active rentals expire within the
// configured window so they can renew before coverage lapses
type ReminderService struct {
	rentalRepo domain.RentalRepository
	mailer     Mailer
	formatter  *util.CurrencyFormatter
	windowDays int
	now        func() time.Time
}

// NewReminderService creates a new ReminderService
func NewReminderService(rentalRepo domain.RentalRepository, mailer Mailer, formatter *util.CurrencyFormatter, windowDays int) *ReminderService {
	if windowDays <= 0 {
		windowDays = domain.ExpiringSoonDays
	}
	return &ReminderService{
		rentalRepo: rentalRepo,
		mailer:     mailer,
		formatter:  formatter,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// SendExpiryReminders emails every contact whose active rental expires
// within the window and returns the number of reminders sent. A failed
// delivery is logged and skipped; one bad address never aborts the batch.
func (s *ReminderService) SendExpiryReminders() (int, error) {
	rentals, err := s.rentalRepo.ListByStatus(domain.StatusActive)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	sent := 0

	for _, rental := range rentals {
		days := util.DaysRemaining(rental.EndDate, now)
		if days == nil || *days <= 0 || *days > s.windowDays {
			continue
		}

		subject := fmt.Sprintf("Your website rental expires in %d day(s)", *days)
		body := fmt.Sprintf(
			"Hello %s,\n\nYour website rental is paid through %s, which is %d day(s) from now.\n"+
				"The monthly price is %s. Please record a renewal payment to keep your site online.\n\nThank you.",
			rental.ContactName,
			rental.EndDate.Format("2006-01-02"),
			*days,
			s.formatter.Format(rental.MonthlyPrice),
		)

		if err := s.mailer.Send(rental.ContactEmail, subject, body); err != nil {
			log.Error().Err(err).
				Str("rental_id", rental.ID.String()).
				Str("email", rental.ContactEmail).
				Msg("failed to send expiry reminder")
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Info().Int("count", sent).Msg("expiry reminders sent")
	}
	return sent, nil
}
