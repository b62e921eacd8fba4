package prompts

import (
	"encoding/json"
	"testing"

	domainagg "github.com/yungbote/promptlib-backend/internal/domain/aggregates"
)

func TestVersionInputPresence(t *testing.T) {
	var in VersionInput
	raw := `{"name":"v1","context":null,"author_id":3,"messages":[]}`
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, f := range []string{"name", "context", "author_id", "messages"} {
		if !in.Has(f) {
			t.Fatalf("Has(%q): got=false want=true", f)
		}
	}
	for _, f := range []string{"commit_message", "type", "tags"} {
		if in.Has(f) {
			t.Fatalf("Has(%q): got=true want=false", f)
		}
	}
}

func TestPromptInputNestedPresence(t *testing.T) {
	var in PromptInput
	raw := `{"name":"greet","versions":[{"name":"v1"},{"type":"chat"}]}`
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.Has("owner_id") {
		t.Fatalf("owner_id should be unset")
	}
	if len(in.Versions) != 2 {
		t.Fatalf("versions: got=%d want=2", len(in.Versions))
	}
	if !in.Versions[0].Has("name") || in.Versions[0].Has("type") {
		t.Fatalf("version 0 presence wrong")
	}
	if in.Versions[1].Has("name") || !in.Versions[1].Has("type") {
		t.Fatalf("version 1 presence wrong")
	}
	in.SetOwnerID(7)
	if !in.Has("owner_id") || in.OwnerID != 7 {
		t.Fatalf("SetOwnerID: got=%d has=%v", in.OwnerID, in.Has("owner_id"))
	}
}

func TestValidateCollectsViolations(t *testing.T) {
	var in PromptInput
	raw := `{
		"name": "",
		"owner_id": 7,
		"versions": [{
			"author_id": 1,
			"type": "poem",
			"variables": [{"name": "3bad"}],
			"messages": [{"role": "narrator"}]
		}]
	}`
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	err := in.Validate()
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("code: got=%v want=validation", domainagg.CodeOf(err))
	}
	got := map[string]string{}
	for _, v := range domainagg.ViolationsOf(err) {
		got[v.Field] = v.Rule
	}
	want := map[string]string{
		"name":                          "required",
		"versions[0].type":              "version_type",
		"versions[0].variables[0].name": "identifier",
		"versions[0].messages[0].role":  "message_role",
	}
	for field, rule := range want {
		if got[field] != rule {
			t.Fatalf("violation %s: got=%q want=%q (all=%v)", field, got[field], rule, got)
		}
	}
}

func TestValidateAcceptsWellFormed(t *testing.T) {
	var in PromptInput
	raw := `{"name":"greet","owner_id":7,"versions":[{"name":"v1","author_id":42,"type":"CHAT",
		"variables":[{"name":"_ok_2"}],"messages":[{"role":"system","content":"hi"}],"tags":[{"name":"demo"}]}]}`
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
