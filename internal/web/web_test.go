package web

import (
	"bytes"
	"strings"
	"testing"
)

func TestTemplates(t *testing.T) {
	tmpl := Templates()

	tests := []struct {
		name    string
		page    IndexPage
		want    []string
		notWant []string
	}{
		{
			name:    "empty form",
			page:    IndexPage{},
			want:    []string{`name="url"`, "Shorten URL"},
			notWant: []string{`class="alert`, "Your shortened URL"},
		},
		{
			name: "success",
			page: IndexPage{Message: "URL shortened successfully!", Success: true, ShortURL: "http://localhost:8080/s/aB3xY9"},
			want: []string{"alert-success", "URL shortened successfully!", `value="http://localhost:8080/s/aB3xY9"`},
		},
		{
			name:    "error is escaped",
			page:    IndexPage{Message: "<script>alert(1)</script>"},
			want:    []string{"alert-danger", "&lt;script&gt;alert(1)&lt;/script&gt;"},
			notWant: []string{"<script>alert(1)</script>", "Your shortened URL"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tmpl.ExecuteTemplate(&buf, "index.html", tt.page); err != nil {
				t.Fatalf("ExecuteTemplate() error = %v", err)
			}
			body := buf.String()

			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("rendered page missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(body, s) {
					t.Errorf("rendered page unexpectedly contains %q", s)
				}
			}
		})
	}
}
