package pages

import (
	"context"
	"errors"
	"testing"

	"github.com/j-veylop/page-insights-tui/internal/graph"
	"github.com/j-veylop/page-insights-tui/internal/models"
)

// MockClient implements Client for testing
type MockClient struct {
	AccountsFunc func(ctx context.Context, token string) ([]models.Page, error)
	calls        int
}

func (m *MockClient) Accounts(ctx context.Context, token string) ([]models.Page, error) {
	m.calls++
	return m.AccountsFunc(ctx, token)
}

func TestList_PreservesOrder(t *testing.T) {
	client := &MockClient{
		AccountsFunc: func(ctx context.Context, token string) ([]models.Page, error) {
			return []models.Page{{ID: "3", Name: "C"}, {ID: "1", Name: "A"}, {ID: "2", Name: "B"}}, nil
		},
	}
	s := New(client)

	pages, err := s.List(context.Background(), models.Credential{Token: "tok"})
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}

	want := []string{"3", "1", "2"}
	if len(pages) != len(want) {
		t.Fatalf("len(pages) = %d, want %d", len(pages), len(want))
	}
	for i, id := range want {
		if pages[i].ID != id {
			t.Errorf("pages[%d].ID = %q, want %q", i, pages[i].ID, id)
		}
	}
}

func TestList_CachedPerCredential(t *testing.T) {
	client := &MockClient{
		AccountsFunc: func(ctx context.Context, token string) ([]models.Page, error) {
			return []models.Page{{ID: token}}, nil
		},
	}
	s := New(client)
	ctx := context.Background()

	first, _ := s.List(ctx, models.Credential{Token: "a"})
	first[0].ID = "mutated"

	second, _ := s.List(ctx, models.Credential{Token: "a"})
	if client.calls != 1 {
		t.Errorf("calls = %d, want 1", client.calls)
	}
	if second[0].ID != "a" {
		t.Errorf("cached listing was mutated by caller: %q", second[0].ID)
	}

	if _, err := s.List(ctx, models.Credential{Token: "b"}); err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if client.calls != 2 {
		t.Errorf("calls = %d, want 2 after new credential", client.calls)
	}

	s.Reset()
	if _, err := s.List(ctx, models.Credential{Token: "a"}); err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if client.calls != 3 {
		t.Errorf("calls = %d, want 3 after Reset", client.calls)
	}
}

func TestList_Failures(t *testing.T) {
	tests := []struct {
		name string
		cred models.Credential
		err  error
	}{
		{"NotLoggedIn", models.Credential{}, nil},
		{"ServerError", models.Credential{Token: "tok"}, &graph.APIError{Status: 500}},
		{"NetworkError", models.Credential{Token: "tok"}, errors.New("dial tcp: refused")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockClient{
				AccountsFunc: func(ctx context.Context, token string) ([]models.Page, error) {
					return nil, tt.err
				},
			}
			s := New(client)

			pages, err := s.List(context.Background(), tt.cred)
			if !errors.Is(err, models.ErrResourceListFailed) {
				t.Errorf("error = %v, want ErrResourceListFailed", err)
			}
			if pages != nil {
				t.Errorf("pages = %v, want nil", pages)
			}
		})
	}
}

func TestList_FailureNotCached(t *testing.T) {
	fail := true
	client := &MockClient{
		AccountsFunc: func(ctx context.Context, token string) ([]models.Page, error) {
			if fail {
				return nil, errors.New("temporary")
			}
			return []models.Page{{ID: "1"}}, nil
		},
	}
	s := New(client)
	cred := models.Credential{Token: "tok"}

	if _, err := s.List(context.Background(), cred); err == nil {
		t.Fatal("expected first List() to fail")
	}

	fail = false
	pages, err := s.List(context.Background(), cred)
	if err != nil || len(pages) != 1 {
		t.Errorf("List() = %v, %v; want one page", pages, err)
	}
}
