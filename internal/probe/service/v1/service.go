/*
包 v1 是探针的业务层：把执行管道和核验引擎组合成对外的业务能力。
control 层只依赖这里的接口，不直接接触 pipeline/verification 内部。
*/
package v1

import (
	"github.com/tenancykit/dps-probe/internal/probe/pipeline"
	"github.com/tenancykit/dps-probe/internal/probe/verification"
)

// Service 业务层入口，声明探针能处理的业务大类。
type Service interface {
	Executions() ExecutionSrv
}

type service struct {
	runner    *pipeline.TestRunner
	engine    *verification.Engine
	table     *pipeline.EndpointTable
	autoCheck bool
}

// NewService 组装业务层。autoVerify 控制执行通过后是否自动追加数据面核验。
func NewService(runner *pipeline.TestRunner, engine *verification.Engine,
	table *pipeline.EndpointTable, autoVerify bool) Service {
	return &service{
		runner:    runner,
		engine:    engine,
		table:     table,
		autoCheck: autoVerify,
	}
}

func (s *service) Executions() ExecutionSrv {
	return newExecutions(s)
}
