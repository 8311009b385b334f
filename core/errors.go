package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX），可穿透 fmt.Errorf("%w") 包装
//
// 错误分类：
//   - 结构性错误（MISSING_COLUMN）：输入文件缺少必需列，初始化必须中止
//   - 输入错误（INVALID_INPUT）：CSV 损坏、查询参数非法等
//   - 语料错误（EMPTY_CORPUS / EMPTY_VOCABULARY）：无法拟合 TF-IDF
//
// 单行数据质量问题（评分/年份非法）不是错误，由 dataset.Sanitize 吸收并计数；
// 过滤结果为空也不是错误，用空切片表示。
type DomainError struct {
	Code    string // 错误代码（如 "MISSING_COLUMN", "INVALID_INPUT"）
	Message string // 错误消息
	Module  string // 模块名称（如 "dataset", "vector"）
	Err     error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsDomainError 检查错误链中是否存在 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链中的 DomainError，如果不存在则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapDomainError 创建携带底层错误的领域错误
func WrapDomainError(module, code, message string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"        // 资源不存在
	ErrorCodeInvalidInput    = "INVALID_INPUT"    // 输入无效
	ErrorCodeMissingColumn   = "MISSING_COLUMN"   // 输入文件缺少必需列（配置错误）
	ErrorCodeEmptyCorpus     = "EMPTY_CORPUS"     // 语料为空
	ErrorCodeEmptyVocabulary = "EMPTY_VOCABULARY" // 去停用词后词表为空
	ErrorCodeInternalError   = "INTERNAL_ERROR"   // 内部错误
)

// 模块名称常量
const (
	ModuleDataset  = "dataset"  // 数据加载与清洗
	ModuleFeature  = "feature"  // 特征组合
	ModuleVector   = "vector"   // TF-IDF 与相似度
	ModuleFilter   = "filter"   // 过滤
	ModulePipeline = "pipeline" // Pipeline 编排
	ModuleEngine   = "engine"   // 初始化与查询入口
	ModuleConfig   = "config"   // 配置
	ModuleCLI      = "cli"      // 命令行
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrorCodeInvalidInput)
}

// IsConfigurationError 检查错误是否为结构性配置错误（缺少必需列）。
// 这类错误与单行数据质量问题不同，必须中止初始化。
func IsConfigurationError(err error) bool {
	return hasCode(err, ErrorCodeMissingColumn)
}

// IsEmptyCorpus 检查错误是否为语料/词表为空
func IsEmptyCorpus(err error) bool {
	return hasCode(err, ErrorCodeEmptyCorpus) || hasCode(err, ErrorCodeEmptyVocabulary)
}
