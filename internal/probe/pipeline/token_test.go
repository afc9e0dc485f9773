package pipeline

import "testing"

func TestAPIKeyToken(t *testing.T) {
	tests := []struct {
		name             string
		prefix           string
		memberID         string
		branchID         string
		apiKey           string
		want             string
	}{
		{
			name:     "标准四段拼接",
			prefix:   "EWC",
			memberID: "M100", branchID: "B7", apiKey: "secret",
			want: "EWC-M100-B7-secret",
		},
		{
			name:     "空分支号保留空段",
			prefix:   "SCI",
			memberID: "M1", branchID: "", apiKey: "k",
			want: "SCI-M1--k",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := APIKeyToken(tt.prefix, tt.memberID, tt.branchID, tt.apiKey)
			if got != tt.want {
				t.Errorf("APIKeyToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOAuth2AuthCode(t *testing.T) {
	got := OAuth2AuthCode("NIC", "client", "shhh", "M42")
	want := "NIC-client-shhh-M42"
	if got != want {
		t.Errorf("OAuth2AuthCode() = %v, want %v", got, want)
	}
}

func TestSubstituteBranch(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		branchID string
		want     string
	}{
		{name: "第三段为0时替换", token: "EWC-M1-0-tok", branchID: "42", want: "EWC-M1-42-tok"},
		{name: "分支号去掉首尾空白", token: "EWC-M1-0-tok", branchID: " 42 ", want: "EWC-M1-42-tok"},
		{name: "第三段非0保持原样", token: "EWC-M1-7-tok", branchID: "42", want: "EWC-M1-7-tok"},
		{name: "段数不足保持原样", token: "EWC-M1", branchID: "42", want: "EWC-M1"},
		{name: "第三段是00不替换", token: "EWC-M1-00-tok", branchID: "42", want: "EWC-M1-00-tok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubstituteBranch(tt.token, tt.branchID); got != tt.want {
				t.Errorf("SubstituteBranch(%q, %q) = %v, want %v", tt.token, tt.branchID, got, tt.want)
			}
		})
	}
}
