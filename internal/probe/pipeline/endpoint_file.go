package pipeline

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/maxiaolu1981/cretem/nexuscore/errors"
)

var endpointConfigValidator = validator.New()

// LoadEndpointConfigs 从 JSON 文件读取端点配置表。
// path 为空时返回内置配置，文件存在但内容非法时报错而不是静默回退。
func LoadEndpointConfigs(path string) ([]EndpointConfig, error) {
	if path == "" {
		return DefaultEndpointConfigs(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "读取端点配置文件失败")
	}
	var configs []EndpointConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, errors.Wrap(err, "解析端点配置文件失败")
	}
	if len(configs) == 0 {
		return nil, errors.New("端点配置文件不能为空列表")
	}
	for i, cfg := range configs {
		if err := endpointConfigValidator.Struct(cfg); err != nil {
			return nil, errors.Wrapf(err, "端点配置第 %d 条非法", i)
		}
	}
	return configs, nil
}
