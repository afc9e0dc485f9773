package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newRunnerForServer(ts *httptest.Server) *TestRunner {
	executor := NewRequestExecutor(ts.URL, 5*time.Second, nil, nil)
	return NewTestRunner(executor, nil)
}

func TestRunnerPassed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"success":true,"dan":"EWC00004420"}`)
	}))
	defer ts.Close()

	runner := newRunnerForServer(ts)
	def := &TestDefinition{
		Endpoint:       "/deposit/create",
		Method:         http.MethodPost,
		Body:           json.RawMessage(`{"deposit":{"amount":500}}`),
		ExpectedStatus: http.StatusCreated,
		Validations: []ValidationRule{
			{Field: "success", Condition: ConditionEquals, Value: true},
			{Field: "dan", Condition: ConditionExists},
		},
	}

	result := runner.Run(context.Background(), def, apikeyCredForTest())
	if result.Status != StatusPassed {
		t.Fatalf("Status = %v, want passed (message: %s)", result.Status, result.Message)
	}
	if result.ID == "" {
		t.Error("ID 不能为空")
	}
	if result.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", result.StatusCode)
	}
	if result.ResponseTimeMs < 0 {
		t.Errorf("ResponseTimeMs = %d, want >= 0", result.ResponseTimeMs)
	}
	if len(result.ValidationResults) != 2 {
		t.Errorf("验证结果数 = %d, want 2", len(result.ValidationResults))
	}
}

func TestRunnerStatusMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"bad request"}`)
	}))
	defer ts.Close()

	runner := newRunnerForServer(ts)
	def := &TestDefinition{Endpoint: "/deposit/create", Method: http.MethodPost, ExpectedStatus: http.StatusCreated}

	result := runner.Run(context.Background(), def, apikeyCredForTest())
	if result.Status != StatusFailed {
		t.Fatalf("Status = %v, want failed", result.Status)
	}
	// 状态码不匹配的话术是固定格式
	if want := "Expected status code 201 but got 400"; result.Message != want {
		t.Errorf("Message = %q, want %q", result.Message, want)
	}
	if result.Error == nil {
		t.Error("错误响应应携带上游错误负载")
	}
}

func TestRunnerExpectedErrorStatusPasses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"not found"}`)
	}))
	defer ts.Close()

	runner := newRunnerForServer(ts)
	// 预期 404 的负向用例：拿到 404 应判 passed
	def := &TestDefinition{Endpoint: "/deposit/status/EWC404", Method: http.MethodGet, ExpectedStatus: http.StatusNotFound}

	result := runner.Run(context.Background(), def, apikeyCredForTest())
	if result.Status != StatusPassed {
		t.Fatalf("Status = %v, want passed（预期内的错误状态码）", result.Status)
	}
}

func TestRunnerValidationFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"Pending"}`)
	}))
	defer ts.Close()

	runner := newRunnerForServer(ts)
	def := &TestDefinition{
		Endpoint:       "/deposit/status/EWC1",
		Method:         http.MethodGet,
		ExpectedStatus: http.StatusOK,
		Validations: []ValidationRule{
			{Field: "status", Condition: ConditionEquals, Value: "Protected"},
		},
	}

	result := runner.Run(context.Background(), def, apikeyCredForTest())
	if result.Status != StatusFailed {
		t.Fatalf("Status = %v, want failed", result.Status)
	}
	// 状态码匹配时不产生状态码话术，失败细节在验证结果里
	if result.Message != "" {
		t.Errorf("Message = %q, want 空", result.Message)
	}
	if len(result.ValidationResults) != 1 || result.ValidationResults[0].Passed {
		t.Error("验证结果应包含一条失败记录")
	}
}

func TestRunnerTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	runner := newRunnerForServer(ts)
	def := &TestDefinition{Endpoint: "/deposit/create", Method: http.MethodPost, ExpectedStatus: http.StatusOK}

	result := runner.Run(context.Background(), def, apikeyCredForTest())
	if result.Status != StatusError {
		t.Fatalf("Status = %v, want error", result.Status)
	}
	if result.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", result.StatusCode)
	}
	if len(result.ValidationResults) != 0 {
		t.Error("传输失败不应执行验证规则")
	}
}

func TestRunnerAliasRewrite(t *testing.T) {
	var gotPath string
	var hasToken bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		hasToken = len(r.Header.Values(AccessTokenHeader)) > 0
		fmt.Fprint(w, `{}`)
	}))
	defer ts.Close()

	runner := newRunnerForServer(ts)
	def := &TestDefinition{
		Endpoint:       "/cart/add/EWC00004420",
		Method:         http.MethodGet,
		ExpectedStatus: http.StatusOK,
		UseAliasURL:    true,
	}

	result := runner.Run(context.Background(), def, apikeyCredForTest())
	if result.Status != StatusPassed {
		t.Fatalf("Status = %v, want passed", result.Status)
	}
	if want := "/alias/M100/B7/key123/cart/add/EWC00004420"; gotPath != want {
		t.Errorf("实际请求路径 = %v, want %v", gotPath, want)
	}
	if hasToken {
		t.Error("alias 内嵌凭据时不应携带 AccessToken 头")
	}
	if !result.Request.AuthInURL {
		t.Error("请求快照应标记 AuthInURL")
	}
}

func TestRunnerPanicRecovery(t *testing.T) {
	// executor 为 nil 时 Execute 调用必然 panic，应收敛为 error 结果
	runner := NewTestRunner(nil, nil)
	def := &TestDefinition{Endpoint: "/deposit/create", Method: http.MethodPost, ExpectedStatus: http.StatusOK}

	result := runner.Run(context.Background(), def, apikeyCredForTest())
	if result.Status != StatusError {
		t.Fatalf("Status = %v, want error", result.Status)
	}
	if result.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", result.StatusCode)
	}
	if result.Error == nil || result.Error.Message == "" {
		t.Error("panic 恢复后应带错误信息")
	}
}
