package security

import (
	"strings"
	"testing"
)

// TestSanitize_AllowedNoteMarkup は許可タグが正しく通過することを検証する。
func TestSanitize_AllowedNoteMarkup(t *testing.T) {
	sanitizer := NewNoteSanitizer()

	tests := []struct {
		name         string
		input        string
		wantContains []string
	}{
		{
			name:         "pタグが許可される",
			input:        "<p>Torque to 35 Nm.</p>",
			wantContains: []string{"<p>Torque to 35 Nm.</p>"},
		},
		{
			name:         "bタグとiタグが許可される",
			input:        "<b>OEM replacement</b> for the <i>legacy</i> unit",
			wantContains: []string{"<b>OEM replacement</b>", "<i>legacy</i>"},
		},
		{
			name:         "strongタグとemタグが許可される",
			input:        "<strong>Do not reuse</strong> the <em>old gasket</em>",
			wantContains: []string{"<strong>Do not reuse</strong>", "<em>old gasket</em>"},
		},
		{
			name:         "ulタグとliタグが許可される",
			input:        "<ul><li>Check clearance</li><li>Replace seal</li></ul>",
			wantContains: []string{"<ul>", "<li>Check clearance</li>", "<li>Replace seal</li>", "</ul>"},
		},
		{
			name:         "preタグとcodeタグが許可される",
			input:        "<pre><code>P/N: BP-1001-R</code></pre>",
			wantContains: []string{"<pre>", "<code>", "P/N: BP-1001-R"},
		},
		{
			name:         "blockquoteタグが許可される",
			input:        "<blockquote>Supplier note</blockquote>",
			wantContains: []string{"<blockquote>Supplier note</blockquote>"},
		},
		{
			name:         "https imgが許可される",
			input:        `<img src="https://cdn.example.com/bp-1001.png" alt="brake pad">`,
			wantContains: []string{"<img", "https://cdn.example.com/bp-1001.png", `alt="brake pad"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) = %q, expected to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

// TestSanitize_StripsDangerousMarkup は禁止タグとイベント属性が除去されることを検証する。
func TestSanitize_StripsDangerousMarkup(t *testing.T) {
	sanitizer := NewNoteSanitizer()

	tests := []struct {
		name         string
		input        string
		wantAbsent   []string
		wantContains []string
	}{
		{
			name:         "scriptタグが除去される",
			input:        `<p>OK</p><script>alert("x")</script>`,
			wantAbsent:   []string{"<script", "alert"},
			wantContains: []string{"<p>OK</p>"},
		},
		{
			name:       "iframeタグが除去される",
			input:      `<iframe src="https://evil.example.com"></iframe>`,
			wantAbsent: []string{"<iframe", "evil.example.com"},
		},
		{
			name:       "styleタグが除去される",
			input:      `<style>body{display:none}</style><p>note</p>`,
			wantAbsent: []string{"<style", "display:none"},
		},
		{
			name:         "divとspanはタグだけ剥がされる",
			input:        `<div><span>fits model X</span></div>`,
			wantAbsent:   []string{"<div", "<span"},
			wantContains: []string{"fits model X"},
		},
		{
			name:       "onclick属性が除去される",
			input:      `<p onclick="steal()">note</p>`,
			wantAbsent: []string{"onclick", "steal"},
		},
		{
			name:       "img onerrorが除去される",
			input:      `<img src="https://cdn.example.com/a.png" onerror="alert(1)">`,
			wantAbsent: []string{"onerror", "alert"},
		},
		{
			name:       "http imgが拒否される",
			input:      `<img src="http://cdn.example.com/a.png">`,
			wantAbsent: []string{"http://cdn.example.com/a.png"},
		},
		{
			name:       "javascript URIが拒否される",
			input:      `<a href="javascript:alert(1)">link</a>`,
			wantAbsent: []string{"javascript:"},
		},
		{
			name:       "data URI imgが拒否される",
			input:      `<img src="data:image/png;base64,abc">`,
			wantAbsent: []string{"data:image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("Sanitize(%q) = %q, should NOT contain %q", tt.input, got, absent)
				}
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize(%q) = %q, expected to contain %q", tt.input, got, want)
				}
			}
		})
	}
}

// TestSanitize_LinkAttributes はaタグにtarget="_blank"とrelが自動付与されることを検証する。
func TestSanitize_LinkAttributes(t *testing.T) {
	sanitizer := NewNoteSanitizer()

	input := `<a href="https://supplier.example.com/datasheet.pdf" target="_self">datasheet</a>`
	got := sanitizer.Sanitize(input)

	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("Sanitize(%q) = %q, expected target=\"_blank\"", input, got)
	}
	if strings.Contains(got, `target="_self"`) {
		t.Errorf("Sanitize(%q) = %q, should NOT keep target=\"_self\"", input, got)
	}
	if !strings.Contains(got, "noopener") || !strings.Contains(got, "noreferrer") {
		t.Errorf("Sanitize(%q) = %q, expected rel noopener noreferrer", input, got)
	}
}

// TestSanitize_PlainTextAndEmpty はプレーンテキストと空入力の扱いを検証する。
func TestSanitize_PlainTextAndEmpty(t *testing.T) {
	sanitizer := NewNoteSanitizer()

	if got := sanitizer.Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, expected empty string", got)
	}

	input := "Plain note with no markup."
	if got := sanitizer.Sanitize(input); got != input {
		t.Errorf("Sanitize(%q) = %q, expected unchanged", input, got)
	}
}

// TestSanitize_Idempotent は二重サニタイズで結果が変わらないことを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewNoteSanitizer()

	input := `<p><b>Note</b></p><a href="https://supplier.example.com">ref</a>`
	first := sanitizer.Sanitize(input)
	second := sanitizer.Sanitize(first)

	if first != second {
		t.Errorf("double sanitize changed output: first=%q second=%q", first, second)
	}
}

// TestNoteSanitizerInterface はNoteSanitizerServiceインターフェースの適合を検証する。
func TestNoteSanitizerInterface(t *testing.T) {
	var _ NoteSanitizerService = NewNoteSanitizer()
}
