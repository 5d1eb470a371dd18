package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garooinc/itzana-insights/internal/handler"
	"github.com/garooinc/itzana-insights/internal/models"
)

type stubAsker struct {
	markdown string
	err      error
	gotQ     string
}

func (s *stubAsker) Ask(_ context.Context, question string) (string, error) {
	s.gotQ = question
	return s.markdown, s.err
}

func postAsk(h *handler.AskHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Ask(rr, req)
	return rr
}

func TestAskSuccess(t *testing.T) {
	asker := &stubAsker{markdown: "# Report\n\nAll good."}
	h := handler.NewAskHandler(asker)

	rr := postAsk(h, `{"question": "revenue by month"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var resp models.AskResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Markdown != "# Report\n\nAll good." {
		t.Errorf("markdown = %q", resp.Markdown)
	}
	if asker.gotQ != "revenue by month" {
		t.Errorf("question passed = %q", asker.gotQ)
	}
}

func TestAskInvalidBody(t *testing.T) {
	h := handler.NewAskHandler(&stubAsker{})

	rr := postAsk(h, `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	h := handler.NewAskHandler(&stubAsker{})

	rr := postAsk(h, `{"question": ""}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestAskPipelineError(t *testing.T) {
	h := handler.NewAskHandler(&stubAsker{err: fmt.Errorf("store exploded")})

	rr := postAsk(h, `{"question": "anything"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "error" || !strings.Contains(resp.Message, "store exploded") {
		t.Errorf("error envelope = %+v", resp)
	}
	if resp.Trace == "" {
		t.Error("server errors should carry diagnostic detail")
	}
}
