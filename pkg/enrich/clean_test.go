package enrich

import "testing"

func TestCleanOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"no":"3"}`, `{"no":"3"}`},
		{"fenced", "```json\n{\"no\":\"3\"}\n```", ` {"no":"3"} `},
		{"escaped newline", `{"Story":"a\nb"}`, `{"Story":"a b"}`},
		{"escaped quotes", `{\"no\": \"3\"}`, `{"no": "3"}`},
		{"bare fence", "```{}```", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanOutput(tt.in); got != tt.want {
				t.Errorf("CleanOutput(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDraft(t *testing.T) {
	out := CleanOutput("```json\n{\n  \"no\": \"3\",\n  \"artifact Name\": \"Bronze Nataraja\",\n  \"Short Description\": \"Chola bronze\",\n  \"Story\": \"Cast in the 10th century\"\n}\n```")
	d, err := ParseDraft(out)
	if err != nil {
		t.Fatalf("ParseDraft: %v", err)
	}
	if d.No != "3" || d.Title != "Bronze Nataraja" || d.ShortDescription != "Chola bronze" {
		t.Errorf("draft = %+v", d)
	}
	if d.Recommendations != "No recommendations available" {
		t.Errorf("missing recommendations should default, got %q", d.Recommendations)
	}
}

func TestParseDraftDefaults(t *testing.T) {
	d, err := ParseDraft(`{"Title": "Tipu Sultan's Sword", "no": 2}`)
	if err != nil {
		t.Fatal(err)
	}
	if d.No != "2" || d.Title != "Tipu Sultan's Sword" || d.Story != "No story available" {
		t.Errorf("draft = %+v", d)
	}

	if _, err := ParseDraft("not json"); err == nil {
		t.Error("expected an error for non-JSON output")
	}
}
