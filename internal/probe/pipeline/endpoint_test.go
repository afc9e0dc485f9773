package pipeline

import "testing"

func TestForOAuth2(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
		want     string
	}{
		{
			name:     "Apex路径插入auth段",
			endpoint: "/services/apexrest/deposit/create",
			want:     "/services/apexrest/auth/deposit/create",
		},
		{
			name:     "授权接口本身不改写",
			endpoint: AuthoriseEndpoint,
			want:     AuthoriseEndpoint,
		},
		{
			name:     "已改写过的端点不重复插入",
			endpoint: "/services/apexrest/auth/deposit/create",
			want:     "/services/apexrest/auth/deposit/create",
		},
		{
			name:     "非Apex路径原样返回",
			endpoint: "/cart/add/EWC123",
			want:     "/cart/add/EWC123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ForOAuth2(tt.endpoint); got != tt.want {
				t.Errorf("ForOAuth2(%q) = %v, want %v", tt.endpoint, got, tt.want)
			}
		})
	}
}

func TestEndpointTableLookup(t *testing.T) {
	table := NewEndpointTable(DefaultEndpointConfigs())

	tests := []struct {
		name         string
		endpoint     string
		wantTemplate string
		wantFound    bool
	}{
		{name: "cart add命中", endpoint: "/cart/add/EWC00004420", wantTemplate: "/cart/add/{dan}", wantFound: true},
		{name: "cart remove命中", endpoint: "/cart/remove/SCC99", wantTemplate: "/cart/remove/{dan}", wantFound: true},
		{name: "deposit status命中", endpoint: "/deposit/status/NIC1", wantTemplate: "/deposit/status/{dan}", wantFound: true},
		{name: "无路径参数的端点精确前缀命中", endpoint: "/deposit/create", wantTemplate: "/deposit/create", wantFound: true},
		{name: "未知端点未命中", endpoint: "/tenancy/list", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, found := table.Lookup(tt.endpoint)
			if found != tt.wantFound {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.endpoint, found, tt.wantFound)
			}
			if found && cfg.EndpointTemplate != tt.wantTemplate {
				t.Errorf("Lookup(%q) template = %v, want %v", tt.endpoint, cfg.EndpointTemplate, tt.wantTemplate)
			}
		})
	}
}

func TestForAlias(t *testing.T) {
	table := NewEndpointTable(DefaultEndpointConfigs())

	apikeyCred := &Credential{
		AuthType: AuthTypeAPIKey,
		MemberID: "M100",
		BranchID: "B7",
		APIKey:   "key123",
	}

	tests := []struct {
		name          string
		def           *TestDefinition
		cred          *Credential
		wantNil       bool
		wantEndpoint  string
		wantAuthInURL bool
	}{
		{
			name: "凭据内嵌式alias完整替换",
			def:  &TestDefinition{Endpoint: "/cart/add/EWC00004420", UseAliasURL: true},
			cred: apikeyCred,
			wantEndpoint:  "/alias/M100/B7/key123/cart/add/EWC00004420",
			wantAuthInURL: true,
		},
		{
			name: "非内嵌式alias也要实化路径参数",
			def:  &TestDefinition{Endpoint: "/deposit/status/EWC5", UseAliasURL: true},
			cred: apikeyCred,
			wantEndpoint:  "/alias/deposit/status/EWC5",
			wantAuthInURL: false,
		},
		{
			name: "非内嵌式alias携带完整DAN",
			def:  &TestDefinition{Endpoint: "/deposit/status/EWC00004420", UseAliasURL: true},
			cred: apikeyCred,
			wantEndpoint:  "/alias/deposit/status/EWC00004420",
			wantAuthInURL: false,
		},
		{
			name:    "未开启alias开关返回nil",
			def:     &TestDefinition{Endpoint: "/cart/add/EWC1", UseAliasURL: false},
			cred:    apikeyCred,
			wantNil: true,
		},
		{
			name: "oauth2鉴权不走alias",
			def:  &TestDefinition{Endpoint: "/cart/add/EWC1", UseAliasURL: true},
			cred: &Credential{AuthType: AuthTypeOAuth2, MemberID: "M1", BranchID: "B1"},
			wantNil: true,
		},
		{
			name:    "端点不支持alias返回nil",
			def:     &TestDefinition{Endpoint: "/deposit/create", UseAliasURL: true},
			cred:    apikeyCred,
			wantNil: true,
		},
		{
			name:    "查不到配置返回nil",
			def:     &TestDefinition{Endpoint: "/unknown/path", UseAliasURL: true},
			cred:    apikeyCred,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.ForAlias(tt.def, tt.cred)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ForAlias() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ForAlias() = nil, want result")
			}
			if got.Endpoint != tt.wantEndpoint {
				t.Errorf("ForAlias() endpoint = %v, want %v", got.Endpoint, tt.wantEndpoint)
			}
			if got.AuthInURL != tt.wantAuthInURL {
				t.Errorf("ForAlias() authInURL = %v, want %v", got.AuthInURL, tt.wantAuthInURL)
			}
		})
	}
}

func TestNewEndpointTableLongestPrefixWins(t *testing.T) {
	table := NewEndpointTable([]EndpointConfig{
		{EndpointTemplate: "/deposit/{dan}", SupportsAliasURL: false},
		{EndpointTemplate: "/deposit/release/{dan}", SupportsAliasURL: true, AliasEndpoint: "/alias/release/{dan}"},
	})

	cfg, found := table.Lookup("/deposit/release/EWC1")
	if !found {
		t.Fatal("Lookup() not found, want found")
	}
	if cfg.EndpointTemplate != "/deposit/release/{dan}" {
		t.Errorf("Lookup() template = %v, want /deposit/release/{dan}", cfg.EndpointTemplate)
	}
}
