package crm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/kovon-io/go-insights/pkg/messaging"
)

type fakeDispatcher struct {
	sms      []messaging.SMSRequest
	whatsapp []messaging.WhatsAppRequest
	err      error
	ack      messaging.Ack
	block    chan struct{}
}

func (f *fakeDispatcher) SendSMS(_ context.Context, req messaging.SMSRequest) (messaging.Ack, error) {
	if f.block != nil {
		<-f.block
	}
	f.sms = append(f.sms, req)
	return f.ack, f.err
}

func (f *fakeDispatcher) SendWhatsApp(_ context.Context, req messaging.WhatsAppRequest) (messaging.Ack, error) {
	f.whatsapp = append(f.whatsapp, req)
	return f.ack, f.err
}

func testRecord() CandidateRecord {
	return CandidateRecord{
		ID:            "rec-1",
		FullName:      "Asha",
		PhoneNumber:   "+91 98765-43210",
		TargetCountry: "UAE",
		TargetJobRole: "Welder",
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"+91 98765-43210", "9876543210"},
		{"9876543210", "9876543210"},
		{"919876543210", "9876543210"},
		// A local number that happens to start with 91 keeps its digits.
		{"9187654321", "9187654321"},
		{"91 98765 43210", "9876543210"},
	}
	for _, tc := range cases {
		if got := NormalizePhone(tc.in); got != tc.want {
			t.Fatalf("NormalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestVariableValueSalaryFallback(t *testing.T) {
	rec := testRecord()
	if got := VariableValue(FieldSalary, rec); got != "competitive" {
		t.Fatalf("expected competitive fallback, got %q", got)
	}
	rec.JobSnapshot.Salary = Salary{Min: 1500, Currency: "AED"}
	if got := VariableValue(FieldSalary, rec); got != "1500 AED" {
		t.Fatalf("expected formatted salary, got %q", got)
	}
	if got := VariableValue(FieldAppLink, rec); got != AppLink {
		t.Fatalf("expected app link constant, got %q", got)
	}
}

func TestPreviewLeavesUnresolvedTokensIntact(t *testing.T) {
	tmpl, ok := SMSTemplateByName("Context Trust App Install Hindi")
	if !ok {
		t.Fatal("template missing")
	}
	rec := testRecord()
	rec.TargetCountry = ""
	vars := ResolveSMSVariables(tmpl, rec, nil)
	preview := PreviewSMS(tmpl, vars)

	if !strings.Contains(preview, "{#country#}") {
		t.Fatalf("expected unresolved token left intact, got %q", preview)
	}
	if !strings.Contains(preview, "Hi Asha") {
		t.Fatalf("expected resolved name, got %q", preview)
	}
	if strings.Contains(preview, "{#applink#}") {
		t.Fatalf("expected applink resolved, got %q", preview)
	}
}

func TestResolveVariablesHonorsOverrides(t *testing.T) {
	tmpl, _ := SMSTemplateByName("App Open")
	vars := ResolveSMSVariables(tmpl, testRecord(), map[string]string{FieldCountry: "Qatar"})
	if vars[FieldCountry] != "Qatar" {
		t.Fatalf("expected override, got %q", vars[FieldCountry])
	}
	if vars[FieldJobRole] != "Welder" {
		t.Fatalf("expected record value, got %q", vars[FieldJobRole])
	}
}

func TestSendSMSDispatchesResolvedTemplate(t *testing.T) {
	dispatcher := &fakeDispatcher{ack: messaging.Ack{StatusCode: 200, Detail: `{"type":"success"}`}}
	composer := NewComposer(dispatcher, slog.New(slog.DiscardHandler))

	ack, err := composer.Send(context.Background(), SendRequest{
		Channel:      ChannelSMS,
		TemplateName: "App Open",
		Record:       testRecord(),
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if ack.Detail != `{"type":"success"}` {
		t.Fatalf("expected provider ack surfaced, got %q", ack.Detail)
	}
	if len(dispatcher.sms) != 1 {
		t.Fatalf("expected one dispatch, got %d", len(dispatcher.sms))
	}
	req := dispatcher.sms[0]
	if req.Mobile != "9876543210" {
		t.Fatalf("expected normalized mobile, got %q", req.Mobile)
	}
	if req.SID != "33387" {
		t.Fatalf("expected template sid, got %q", req.SID)
	}
	if req.Variables[FieldAppLink] != AppLink {
		t.Fatalf("expected applink variable, got %#v", req.Variables)
	}
	if composer.Sending() {
		t.Fatal("expected sending flag reset")
	}
}

func TestSendWhatsAppUsesNumericKeys(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	composer := NewComposer(dispatcher, slog.New(slog.DiscardHandler))

	_, err := composer.Send(context.Background(), SendRequest{
		Channel:      ChannelWhatsApp,
		TemplateName: "unreg_day0_install_msg",
		Record:       testRecord(),
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	req := dispatcher.whatsapp[0]
	if req.TemplateID != "23502" {
		t.Fatalf("expected wid, got %q", req.TemplateID)
	}
	if req.BodyValues["1"] != "Asha" || req.BodyValues["2"] != "UAE" || req.BodyValues["3"] != "Welder" {
		t.Fatalf("unexpected body values %#v", req.BodyValues)
	}
}

func TestSendResetsFlagOnFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{err: errors.New("status 422: invalid mobile")}
	composer := NewComposer(dispatcher, slog.New(slog.DiscardHandler))

	_, err := composer.Send(context.Background(), SendRequest{
		Channel:      ChannelSMS,
		TemplateName: "App Open",
		Record:       testRecord(),
	})
	if err == nil || !strings.Contains(err.Error(), "invalid mobile") {
		t.Fatalf("expected provider detail in error, got %v", err)
	}
	if composer.Sending() {
		t.Fatal("expected sending flag reset after failure")
	}
}

func TestSendRejectsUnknownTemplateAndChannel(t *testing.T) {
	composer := NewComposer(&fakeDispatcher{}, slog.New(slog.DiscardHandler))
	if _, err := composer.Send(context.Background(), SendRequest{
		Channel: ChannelSMS, TemplateName: "nope", Record: testRecord(),
	}); err == nil {
		t.Fatal("expected unknown template error")
	}
	if _, err := composer.Send(context.Background(), SendRequest{
		Channel: "carrier-pigeon", TemplateName: "App Open", Record: testRecord(),
	}); err == nil {
		t.Fatal("expected unknown channel error")
	}
}
