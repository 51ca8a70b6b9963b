package xsettings

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Format 配置文档格式
type Format string

// 支持的格式
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// koanf 的 key 分隔符。实验 key 不会出现在路径里，取默认值即可。
const delim = "."

// DetectFormat 根据扩展名识别格式（.yaml/.yml/.json）
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown extension %q", ErrUnsupportedFormat, ext)
	}
}

// Parse 解析字节数据为 Document。空数据返回 ErrNilDocument。
// 只做结构解析，不变量校验由 Compile 负责。
func Parse(data []byte, format Format) (*Document, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNilDocument
	}

	k := koanf.New(delim)
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParseFailed, err)
	}

	var doc Document
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
	}
	return &doc, nil
}

// Load 读取并解析配置文件，格式由扩展名决定。
func Load(path string) (*Document, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return Parse(data, format)
}

// LoadSnapshot 读取、解析并编译配置文件。
func LoadSnapshot(path string) (*Snapshot, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case FormatYAML:
		return yaml.Parser(), nil
	case FormatJSON:
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
