package venueconf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StringList 兼容标量和列表两种写法的字符串列表
type StringList []string

// UnmarshalYAML 实现 yaml.Unmarshaler
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var one string
		if err := node.Decode(&one); err != nil {
			return err
		}
		*s = StringList{one}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := node.Decode(&many); err != nil {
			return err
		}
		*s = StringList(many)
		return nil
	default:
		return fmt.Errorf("string list: unexpected yaml node kind %d", node.Kind)
	}
}

// Load 解析单个场馆配置
func Load(data []byte) (*Venue, error) {
	v := &Venue{}
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("venue config: %w", err)
	}
	if err := v.validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadFile 从文件加载单个场馆配置
func LoadFile(path string) (*Venue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// LoadDir 加载目录下全部 .yaml 场馆配置, 返回 name -> venue
func LoadDir(dir string) (map[string]*Venue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	venues := make(map[string]*Venue)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) < 5 || name[len(name)-5:] != ".yaml" {
			continue
		}
		v, err := LoadFile(dir + "/" + name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		venues[v.Name] = v
	}
	return venues, nil
}
