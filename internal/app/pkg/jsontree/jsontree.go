// Package jsontree 提供对 schema 不稳定的 JSON 树的递归检索能力。
// 上游接口的字段位置会随版本静默变化，调用方不能假设固定结构，
// 只能按字段名在整棵树上搜索。树由 encoding/json 反序列化产生
// （开启 UseNumber）：map[string]interface{}、[]interface{}、
// string、json.Number、bool、nil。
package jsontree

import (
	"encoding/json"
	"sort"
)

// Locate 深度优先查找第一个名为 key 的字段值。
// map 节点先检查自身是否直接包含 key，再按 key 字典序递归子节点；
// 数组按元素顺序递归。字典序保证同一棵树多次检索结果一致
// （Go 的 map 遍历顺序随机，直接遍历会破坏"首个命中"的稳定性）。
// 未找到返回 (nil, false)，这不是错误。
func Locate(tree interface{}, key string) (interface{}, bool) {
	switch node := tree.(type) {
	case map[string]interface{}:
		if v, ok := node[key]; ok {
			return v, true
		}
		for _, k := range sortedKeys(node) {
			if v, ok := Locate(node[k], key); ok {
				return v, true
			}
		}
	case []interface{}:
		for _, item := range node {
			if v, ok := Locate(item, key); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// LocateText 查找第一个名为 key 的字段并转为文本，非标量或未找到返回空串
func LocateText(tree interface{}, key string) string {
	v, ok := Locate(tree, key)
	if !ok {
		return ""
	}
	return Text(v)
}

// Collect 遍历整棵树，按出现顺序收集所有名为 key 的字段值。
// 与 Locate 不同，命中后不会停止，还会继续深入命中值本身
// （上游会把同一个标识嵌套在兄弟结构里重复出现）。
func Collect(tree interface{}, key string) []interface{} {
	var out []interface{}
	collect(tree, key, &out)
	return out
}

func collect(tree interface{}, key string, out *[]interface{}) {
	switch node := tree.(type) {
	case map[string]interface{}:
		if v, ok := node[key]; ok {
			*out = append(*out, v)
		}
		for _, k := range sortedKeys(node) {
			collect(node[k], key, out)
		}
	case []interface{}:
		for _, item := range node {
			collect(item, key, out)
		}
	}
}

// ContainsString 判断树中任意位置是否存在与 target 完全相等的字符串标量。
// 按值匹配而不是按字段名匹配，用于哨兵字符串检测。
func ContainsString(tree interface{}, target string) bool {
	switch node := tree.(type) {
	case map[string]interface{}:
		for _, k := range sortedKeys(node) {
			if ContainsString(node[k], target) {
				return true
			}
		}
	case []interface{}:
		for _, item := range node {
			if ContainsString(item, target) {
				return true
			}
		}
	case string:
		return node == target
	}
	return false
}

// Text 标量转文本。字符串原样返回，数字返回原始字面量，
// 其余类型（map、数组、bool、nil）返回空串。
func Text(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	return ""
}

// IsEmptyScalar 判断标量是否为空值（nil、空串、数字 0）
func IsEmptyScalar(v interface{}) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == ""
	case json.Number:
		return s.String() == "0" || s.String() == ""
	case bool:
		return !s
	}
	return false
}

// IsScalar 判断节点是否为标量（非 map、非数组）
func IsScalar(v interface{}) bool {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		return false
	}
	return true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
