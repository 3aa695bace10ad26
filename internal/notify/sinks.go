package notify

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"

	"github.com/frontdesk-ai/reception-cli/internal/calllog"
	"github.com/frontdesk-ai/reception-cli/pkg/notion"
	"github.com/frontdesk-ai/reception-cli/pkg/salesforce"
	"github.com/frontdesk-ai/reception-cli/pkg/sendgrid"
	"github.com/frontdesk-ai/reception-cli/pkg/twilio"
)

// RecordSink writes the structured call record. It runs for every final
// event regardless of the notification decision.
type RecordSink struct {
	store calllog.Store
}

func NewRecordSink(store calllog.Store) *RecordSink {
	return &RecordSink{store: store}
}

func (s *RecordSink) Name() string { return "record" }

func (s *RecordSink) Wants(n Notification) bool { return n.Final }

func (s *RecordSink) Deliver(ctx context.Context, n Notification) error {
	return s.store.Insert(ctx, &calllog.Record{
		CallID:       n.CallID,
		Business:     n.Business,
		Caller:       n.Caller,
		Status:       n.Status,
		DurationMS:   n.DurationMS,
		Summary:      n.Summary,
		RecordingURL: n.RecordingURL,
		Notified:     n.Notify,
		Reason:       n.Reason,
	})
}

// NotionSink mirrors the call record into a shared Notion database the
// office team already lives in.
type NotionSink struct {
	client notion.Client
	dbID   string
}

func NewNotionSink(client notion.Client, dbID string) *NotionSink {
	return &NotionSink{client: client, dbID: dbID}
}

func (s *NotionSink) Name() string { return "notion" }

func (s *NotionSink) Wants(n Notification) bool { return n.Final }

func (s *NotionSink) Deliver(ctx context.Context, n Notification) error {
	title := fmt.Sprintf("%s - %s", n.Business, n.Caller)
	props := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: title}}},
		},
		"Status": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: n.Status}}},
		},
		"Summary": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: n.Summary}}},
		},
	}
	if n.RecordingURL != "" {
		props["Recording"] = notionapi.URLProperty{URL: n.RecordingURL}
	}

	_, err := s.client.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent:     notionapi.Parent{Type: notionapi.ParentTypeDatabaseID, DatabaseID: notionapi.DatabaseID(s.dbID)},
		Properties: props,
	})
	return eris.Wrap(err, "notify: notion page")
}

// EmailSink sends the call summary to the client when an address is on
// file. It does not depend on the urgency decision.
type EmailSink struct {
	client sendgrid.Client
	from   string
}

func NewEmailSink(client sendgrid.Client, from string) *EmailSink {
	return &EmailSink{client: client, from: from}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Wants(n Notification) bool {
	return n.Final && n.ClientEmail != ""
}

func (s *EmailSink) Deliver(ctx context.Context, n Notification) error {
	html := fmt.Sprintf(
		`<h3>Call summary for %s</h3>
<p><b>Caller:</b> %s<br><b>Status:</b> %s<br><b>Duration:</b> %ds</p>
<p>%s</p>`,
		n.Business, n.Caller, n.Status, n.DurationMS/1000, n.Summary)
	if n.RecordingURL != "" {
		html += fmt.Sprintf(`<p><a href="%s">Listen to the recording</a></p>`, n.RecordingURL)
	}

	return s.client.Send(ctx, sendgrid.Email{
		To:      n.ClientEmail,
		From:    s.from,
		Subject: fmt.Sprintf("Call summary - %s", n.Business),
		HTML:    html,
	})
}

// SMSSink texts the owner, but only for calls the decision engine judged
// worth an interruption.
type SMSSink struct {
	client twilio.Client
	from   string
}

func NewSMSSink(client twilio.Client, from string) *SMSSink {
	return &SMSSink{client: client, from: from}
}

func (s *SMSSink) Name() string { return "sms" }

func (s *SMSSink) Wants(n Notification) bool {
	return n.Notify && n.NotifyPhone != ""
}

func (s *SMSSink) Deliver(ctx context.Context, n Notification) error {
	body := fmt.Sprintf("%s: call from %s needs attention (%s). %s",
		n.Business, n.Caller, n.Reason, truncate(n.Summary, 240))
	_, err := s.client.SendSMS(ctx, twilio.Message{
		To:   n.NotifyPhone,
		From: s.from,
		Body: body,
	})
	return err
}

// CRMSink pushes a lead into Salesforce for calls flagged as worth
// following up.
type CRMSink struct {
	client salesforce.Client
}

func NewCRMSink(client salesforce.Client) *CRMSink {
	return &CRMSink{client: client}
}

func (s *CRMSink) Name() string { return "crm" }

func (s *CRMSink) Wants(n Notification) bool {
	return n.Final && n.Notify
}

func (s *CRMSink) Deliver(ctx context.Context, n Notification) error {
	_, err := s.client.InsertOne(ctx, "Lead", map[string]any{
		"LastName":    leadName(n.Caller),
		"Company":     n.Business,
		"Phone":       n.Caller,
		"LeadSource":  "AI Receptionist",
		"Description": n.Summary,
	})
	return err
}

func leadName(caller string) string {
	if caller == "" {
		return "Unknown Caller"
	}
	return "Caller " + caller
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
