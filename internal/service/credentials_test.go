package service

import (
	"context"
	"testing"

	"github.com/mailmeow/mailmeow/internal/models"
)

func TestBindCredentialTwiceConflicts(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "alice@example.com", "secret123")
	token := issueTestKey(t, svc, "alice@example.com", "secret123")

	in := BindInput{Provider: models.ProviderOutlook, AccessToken: "AT1"}
	cred, errBind := svc.BindCredential(ctx, token, in)
	if errBind != nil {
		t.Fatalf("first bind: %v", errBind)
	}
	if cred.Provider != models.ProviderOutlook || cred.AccessToken != "AT1" {
		t.Fatalf("unexpected credential: %+v", cred)
	}

	if _, errAgain := svc.BindCredential(ctx, token, in); !IsKind(errAgain, KindConflict) {
		t.Fatalf("second bind: got %v, want conflict error", errAgain)
	}

	// The first credential must be untouched by the failed rebind attempt.
	got, errAuthorize := svc.AuthorizeSend(ctx, token, models.ProviderOutlook)
	if errAuthorize != nil {
		t.Fatalf("authorize: %v", errAuthorize)
	}
	if got.AccessToken != "AT1" {
		t.Fatalf("access token overwritten: %q", got.AccessToken)
	}
}

func TestRebindWithoutBindFails(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "alice@example.com", "secret123")
	token := issueTestKey(t, svc, "alice@example.com", "secret123")

	in := BindInput{Provider: models.ProviderGmail, AccessToken: "AT1"}
	if _, errRebind := svc.RebindCredential(ctx, token, in); !IsKind(errRebind, KindNotFound) {
		t.Fatalf("rebind without bind: got %v, want not-found error", errRebind)
	}
}

func TestRebindKeepsIdentityAndOwnership(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "alice@example.com", "secret123")
	token := issueTestKey(t, svc, "alice@example.com", "secret123")

	bound, errBind := svc.BindCredential(ctx, token, BindInput{Provider: models.ProviderGmail, AccessToken: "AT1", RefreshToken: "RT1"})
	if errBind != nil {
		t.Fatalf("bind: %v", errBind)
	}

	rebound, errRebind := svc.RebindCredential(ctx, token, BindInput{Provider: models.ProviderGmail, AccessToken: "AT2"})
	if errRebind != nil {
		t.Fatalf("rebind: %v", errRebind)
	}
	if rebound.ID != bound.ID {
		t.Fatalf("rebind changed identifier: %s -> %s", bound.ID, rebound.ID)
	}
	if rebound.UserID != bound.UserID {
		t.Fatalf("rebind changed ownership: %s -> %s", bound.UserID, rebound.UserID)
	}
	if rebound.AccessToken != "AT2" || rebound.RefreshToken != "" {
		t.Fatalf("token material not replaced: %+v", rebound)
	}
}

func TestUnbindIsNotIdempotent(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "alice@example.com", "secret123")
	token := issueTestKey(t, svc, "alice@example.com", "secret123")

	if _, errBind := svc.BindCredential(ctx, token, BindInput{Provider: models.ProviderOutlook, AccessToken: "AT1"}); errBind != nil {
		t.Fatalf("bind: %v", errBind)
	}
	if errUnbind := svc.UnbindCredential(ctx, token, models.ProviderOutlook); errUnbind != nil {
		t.Fatalf("first unbind: %v", errUnbind)
	}
	if errAgain := svc.UnbindCredential(ctx, token, models.ProviderOutlook); !IsKind(errAgain, KindNotFound) {
		t.Fatalf("second unbind: got %v, want not-found error", errAgain)
	}
}

func TestAuthorizeSend(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "alice@example.com", "secret123")
	token := issueTestKey(t, svc, "alice@example.com", "secret123")

	if _, errNone := svc.AuthorizeSend(ctx, token, ""); !IsKind(errNone, KindNotFound) {
		t.Fatalf("no credential: got %v, want not-found error", errNone)
	}

	if _, errBind := svc.BindCredential(ctx, token, BindInput{Provider: models.ProviderOutlook, AccessToken: "AT1"}); errBind != nil {
		t.Fatalf("bind outlook: %v", errBind)
	}

	cred, errSingle := svc.AuthorizeSend(ctx, token, "")
	if errSingle != nil {
		t.Fatalf("authorize single: %v", errSingle)
	}
	if cred.Provider != models.ProviderOutlook {
		t.Fatalf("authorized provider %s, want outlook", cred.Provider)
	}

	if _, errBind := svc.BindCredential(ctx, token, BindInput{Provider: models.ProviderGmail, AccessToken: "AT2"}); errBind != nil {
		t.Fatalf("bind gmail: %v", errBind)
	}

	if _, errAmbiguous := svc.AuthorizeSend(ctx, token, ""); !IsKind(errAmbiguous, KindValidation) {
		t.Fatalf("ambiguous provider: got %v, want validation error", errAmbiguous)
	}

	gmailCred, errPicked := svc.AuthorizeSend(ctx, token, models.ProviderGmail)
	if errPicked != nil {
		t.Fatalf("authorize gmail: %v", errPicked)
	}
	if gmailCred.AccessToken != "AT2" {
		t.Fatalf("authorized token %q, want AT2", gmailCred.AccessToken)
	}
}

func TestBindRejectsUnknownProvider(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "alice@example.com", "secret123")
	token := issueTestKey(t, svc, "alice@example.com", "secret123")

	if _, errBind := svc.BindCredential(ctx, token, BindInput{Provider: "pigeon", AccessToken: "AT1"}); !IsKind(errBind, KindValidation) {
		t.Fatalf("unknown provider: got %v, want validation error", errBind)
	}
	if _, errBind := svc.BindCredential(ctx, token, BindInput{Provider: models.ProviderGmail}); !IsKind(errBind, KindValidation) {
		t.Fatalf("missing access token: got %v, want validation error", errBind)
	}
}

func TestListProviders(t *testing.T) {
	t.Parallel()
	svc := setupTestService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "alice@example.com", "secret123")
	token := issueTestKey(t, svc, "alice@example.com", "secret123")

	bindings, errEmpty := svc.ListProviders(ctx, token)
	if errEmpty != nil {
		t.Fatalf("list empty: %v", errEmpty)
	}
	if len(bindings) != 0 {
		t.Fatalf("expected no bindings, got %d", len(bindings))
	}

	for _, provider := range []string{models.ProviderOutlook, models.ProviderGmail} {
		if _, errBind := svc.BindCredential(ctx, token, BindInput{Provider: provider, AccessToken: "AT"}); errBind != nil {
			t.Fatalf("bind %s: %v", provider, errBind)
		}
	}

	bindings, errList := svc.ListProviders(ctx, token)
	if errList != nil {
		t.Fatalf("list: %v", errList)
	}
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}
}
