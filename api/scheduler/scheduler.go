package scheduler

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/leadtrackr/lead-tracker-api/databases"
	"github.com/leadtrackr/lead-tracker-api/models"
	templates "github.com/leadtrackr/lead-tracker-api/templates/html"
)

// Scheduler handles the periodic follow-up digest job
type Scheduler struct {
	cron        *cron.Cron
	LeadDB      databases.LeadDatabase
	digestEmail string
}

// New creates a new scheduler instance
func New(leadDB databases.LeadDatabase, digestEmail string) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		LeadDB:      leadDB,
		digestEmail: digestEmail,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Send the follow-up digest daily at 8 AM UTC
	_, err := s.cron.AddFunc("0 8 * * *", s.sendFollowUpDigest)
	if err != nil {
		zap.S().Errorw("failed to register follow-up digest job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("follow-up scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("follow-up scheduler stopped")
}

// sendFollowUpDigest emails the sales team the leads whose follow-up date
// lands on the current day
func (s *Scheduler) sendFollowUpDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dayStart := time.Now().UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	leads, err := s.LeadDB.Find(ctx, bson.M{
		"nextFollowUpDate": bson.M{"$gte": dayStart, "$lt": dayEnd},
	})
	if err != nil {
		zap.S().Errorw("failed to find leads due for follow-up", "error", err)
		return
	}
	if len(leads) == 0 {
		zap.S().Debug("no follow-ups due today, skipping digest")
		return
	}

	subject := fmt.Sprintf("%d lead follow-up(s) due today", len(leads))
	htmlContent := templates.RenderFollowUpDigestEmail(leads)

	if err := s.sendEmail(s.digestEmail, "Sales Team", subject, htmlContent, plainTextDigest(leads)); err != nil {
		zap.S().Errorw("failed to send follow-up digest", "error", err)
		return
	}

	zap.S().Infow("follow-up digest sent", "leads", len(leads))
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	from := mail.NewEmail("Lead Tracker", "no-reply@leadtrackr.io")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}

func plainTextDigest(leads []models.Lead) string {
	var b strings.Builder
	for _, lead := range leads {
		fmt.Fprintf(&b, "%s (%s), assigned to %s\n", lead.CompanyName, lead.ContactPerson, lead.Assignee)
	}
	return b.String()
}
