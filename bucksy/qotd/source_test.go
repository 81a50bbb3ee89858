package qotd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestCandidates(t *testing.T) {
	got := Candidates([]string{
		"  What starter did you pick?  ",
		"Look at my collection",
		"NSFW: what is your worst take?",
		"Which gym was hardest?",
	})
	want := []string{"What starter did you pick?", "Which gym was hardest?"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}

func TestRedditSource_Fetch(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{
			name:   "first safe question",
			status: http.StatusOK,
			body: `{"data":{"children":[
				{"data":{"title":"Not a question","over_18":false}},
				{"data":{"title":"Which region is best?","over_18":true}},
				{"data":{"title":"Who is your favourite rival?","over_18":false}}
			]}}`,
			want: "Who is your favourite rival?",
		},
		{
			name:    "nothing usable",
			status:  http.StatusOK,
			body:    `{"data":{"children":[{"data":{"title":"Statement.","over_18":false}}]}}`,
			wantErr: ErrNoCandidates,
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("User-Agent") == "" {
					t.Error("request sent without User-Agent")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			src := NewRedditSource(srv.URL, srv.Client())
			src.intn = func(int) int { return 0 }

			got, err := src.Fetch(context.Background())
			if tt.status != http.StatusOK {
				if err == nil {
					t.Fatal("Fetch() error = nil, want status error")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Fetch() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Fetch() = %q, want %q", got, tt.want)
			}
		})
	}
}
