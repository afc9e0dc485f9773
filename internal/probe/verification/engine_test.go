package verification

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tenancykit/dps-probe/internal/pkg/metrics"
)

// newTestEngine 构造等待被短路的引擎，记录实际请求的等待时长
func newTestEngine(dataplane *DataPlaneClient, waited *time.Duration) *Engine {
	e := NewEngine(NewRegistry(DefaultRules()...), dataplane, 0)
	e.wait = func(ctx context.Context, d time.Duration) {
		if waited != nil {
			*waited = d
		}
	}
	return e
}

func newFakeDataPlane(t *testing.T, handler http.HandlerFunc) (*DataPlaneClient, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewDataPlaneClient(ts.URL, "test-token", 5*time.Second), ts
}

func TestVerifyNoRuleConfigured(t *testing.T) {
	engine := newTestEngine(nil, nil)

	result := engine.Verify(context.Background(), "/tenancy/list", nil, nil)
	if result.Success {
		t.Error("Success = true, want false")
	}
	if want := "No verification rule configured for endpoint /tenancy/list"; result.Error != want {
		t.Errorf("Error = %q, want %q", result.Error, want)
	}
}

func TestVerifyExtractionFailure(t *testing.T) {
	engine := newTestEngine(nil, nil)

	// cart-add 规则命中了，但路径里没有合法 DAN
	result := engine.Verify(context.Background(), "/cart/add/XXX", nil, nil)
	if result.Success {
		t.Error("Success = true, want false")
	}
	if want := "Could not extract identifier for endpoint /cart/add/XXX"; result.Error != want {
		t.Errorf("Error = %q, want %q", result.Error, want)
	}
}

func TestVerifyCartAddHappyPath(t *testing.T) {
	var gotQuery, gotAuth string
	var queryCount int
	dataplane, _ := newFakeDataPlane(t, func(w http.ResponseWriter, r *http.Request) {
		queryCount++
		gotQuery = r.URL.Query().Get("q")
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"totalSize":1,"records":[{"Id":"a01","In_Cart__c":true}]}`)
	})

	var waited time.Duration
	engine := newTestEngine(dataplane, &waited)

	result := engine.Verify(context.Background(), "/cart/add/EWC00004420", nil, nil)
	if !result.Success {
		t.Fatalf("Success = false, error = %s", result.Error)
	}
	if !result.AllPassed {
		t.Errorf("AllPassed = false, checks = %+v", result.Checks)
	}
	if queryCount != 1 {
		t.Errorf("查询次数 = %d, want 1（不轮询不重试）", queryCount)
	}
	if waited != DefaultDelay {
		t.Errorf("等待时长 = %v, want 默认 %v", waited, DefaultDelay)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %v, want Bearer test-token", gotAuth)
	}

	// 查询按三个候选标识字段逻辑或，只取一条
	for _, fragment := range []string{
		"SELECT Id, In_Cart__c FROM Deposit__c",
		"Name = 'EWC00004420'",
		"DAN__c = 'EWC00004420'",
		"Deposit_Account_Number__c = 'EWC00004420'",
		" OR ",
		"LIMIT 1",
	} {
		if !strings.Contains(gotQuery, fragment) {
			t.Errorf("查询语句缺少 %q: %s", fragment, gotQuery)
		}
	}
}

func TestVerifyObservesQueryDuration(t *testing.T) {
	dataplane, _ := newFakeDataPlane(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"totalSize":1,"records":[{"Id":"a01","In_Cart__c":true}]}`)
	})
	engine := newTestEngine(dataplane, nil)

	engine.Verify(context.Background(), "/cart/add/EWC00004420", nil, nil)
	// 查询耗时直方图至少要有 deposit-fields 这一条序列
	if n := testutil.CollectAndCount(metrics.VerificationQueryDuration); n == 0 {
		t.Error("核验查询耗时直方图没有任何序列")
	}
}

func TestVerifyFieldMismatch(t *testing.T) {
	dataplane, _ := newFakeDataPlane(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"totalSize":1,"records":[{"Id":"a01","In_Cart__c":false}]}`)
	})
	engine := newTestEngine(dataplane, nil)

	result := engine.Verify(context.Background(), "/cart/add/EWC1", nil, nil)
	// 查到了记录：Success=true，但字段不符 AllPassed=false
	if !result.Success {
		t.Fatalf("Success = false, error = %s", result.Error)
	}
	if result.AllPassed {
		t.Error("AllPassed = true, want false")
	}
	if len(result.Checks) != 1 {
		t.Fatalf("Checks 数 = %d, want 1", len(result.Checks))
	}
	if want := "Field In_Cart__c: expected true, got false"; result.Checks[0].Message != want {
		t.Errorf("Message = %q, want %q", result.Checks[0].Message, want)
	}
}

func TestVerifyRecordNotFound(t *testing.T) {
	dataplane, _ := newFakeDataPlane(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"totalSize":0,"records":[]}`)
	})
	engine := newTestEngine(dataplane, nil)

	result := engine.Verify(context.Background(), "/cart/add/EWC99", nil, nil)
	if result.Success {
		t.Error("Success = true, want false")
	}
	if want := "No record found for identifier EWC99"; result.Error != want {
		t.Errorf("Error = %q, want %q", result.Error, want)
	}
}

func TestVerifyQueryError(t *testing.T) {
	dataplane, _ := newFakeDataPlane(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message":"boom"}`)
	})
	engine := newTestEngine(dataplane, nil)

	result := engine.Verify(context.Background(), "/cart/add/EWC1", nil, nil)
	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.Error == "" {
		t.Error("Error 应包含查询失败原因")
	}
}

func TestVerifyDepositCreateUsesResponseDAN(t *testing.T) {
	var gotQuery string
	dataplane, _ := newFakeDataPlane(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"totalSize":1,"records":[{"Id":"a01","Status__c":"Protected","Amount__c":500}]}`)
	})
	engine := newTestEngine(dataplane, nil)

	requestBody := []byte(`{"deposit":{"amount":500}}`)
	response := []byte(`{"success":true,"dan":"EWI777"}`)

	result := engine.Verify(context.Background(), "/deposit/create", requestBody, response)
	if !result.Success || !result.AllPassed {
		t.Fatalf("result = %+v, want 全部通过", result)
	}
	if !strings.Contains(gotQuery, "'EWI777'") {
		t.Errorf("查询应使用响应里的 DAN: %s", gotQuery)
	}
	if !strings.Contains(gotQuery, "Amount__c") || !strings.Contains(gotQuery, "Status__c") {
		t.Errorf("查询应选择动态期望字段: %s", gotQuery)
	}
}

func TestVerifyCustomQuery(t *testing.T) {
	var gotQuery string
	dataplane, _ := newFakeDataPlane(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"totalSize":1,"records":[{"Id":"a01","Release_Status__c":"Released"}]}`)
	})
	engine := newTestEngine(dataplane, nil)

	result := engine.Verify(context.Background(), "/deposit/release/SCC42", nil, nil)
	if !result.Success || !result.AllPassed {
		t.Fatalf("result = %+v, want 全部通过", result)
	}
	// {id} 占位符被替换成提取出的标识
	if want := "SELECT Id, Status__c, Release_Status__c FROM Deposit__c WHERE DAN__c = 'SCC42' LIMIT 1"; gotQuery != want {
		t.Errorf("查询 = %q, want %q", gotQuery, want)
	}
}

func TestVerifyRuleDelayOverridesDefault(t *testing.T) {
	dataplane, _ := newFakeDataPlane(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"totalSize":1,"records":[{"Id":"a01","Ready__c":true}]}`)
	})

	rule := &Rule{
		Name:           "custom-delay",
		Pattern:        "/slow/",
		Extract:        func(string, []byte, []byte) string { return "ID1" },
		Kind:           KindDepositFields,
		Object:         "Deposit__c",
		ExpectedFields: map[string]interface{}{"Ready__c": true},
		Delay:          5 * time.Second,
	}

	var waited time.Duration
	engine := NewEngine(NewRegistry(rule), dataplane, 0)
	engine.wait = func(ctx context.Context, d time.Duration) { waited = d }

	engine.Verify(context.Background(), "/slow/op", nil, nil)
	if waited != 5*time.Second {
		t.Errorf("等待时长 = %v, want 5s（规则覆盖默认值）", waited)
	}
}

func TestEngineConfigured(t *testing.T) {
	if NewEngine(nil, NewDataPlaneClient("", "", 0), 0).Configured() {
		t.Error("未配置查询地址时 Configured() 应为 false")
	}
	if !NewEngine(nil, NewDataPlaneClient("http://dp.example.com", "tok", 0), 0).Configured() {
		t.Error("配置齐全时 Configured() 应为 true")
	}
}
