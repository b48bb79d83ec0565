package backend

import (
	"encoding/json"
)

// Endpoint names a backend endpoint whose success body needs reshaping for the UI.
type Endpoint string

const (
	NGOList     Endpoint = "ngos.list"
	NGOGet      Endpoint = "ngos.get"
	ProjectList Endpoint = "projects.list"
	ProjectGet  Endpoint = "projects.get"
	UserGet     Endpoint = "users.get"
)

// Normalizer reshapes a 2xx body into the canonical form for one endpoint.
type Normalizer func(body []byte) json.RawMessage

// normalizers is the full mapping; endpoints not listed pass through unchanged.
// Each backend endpoint wraps differently today, so keep one entry per endpoint.
var normalizers = map[Endpoint]Normalizer{
	NGOList:     func(b []byte) json.RawMessage { return listFrom(b, dataArray, successDataArray) },
	ProjectList: func(b []byte) json.RawMessage { return listFrom(b, dataArray, successDataArray, projectsArray, dataProjectsArray) },
	NGOGet:      objectFrom,
	ProjectGet:  objectFrom,
	UserGet:     objectFrom,
}

// Normalize applies the endpoint's normalizer, or returns body untouched.
func Normalize(e Endpoint, body []byte) json.RawMessage {
	if n, ok := normalizers[e]; ok {
		return n(body)
	}
	return json.RawMessage(body)
}

var emptyList = json.RawMessage("[]")

type listShape func(map[string]json.RawMessage) (json.RawMessage, bool)

// listFrom accepts a bare array or one of shapes; anything else becomes [].
func listFrom(body []byte, shapes ...listShape) json.RawMessage {
	if isArray(body) {
		return json.RawMessage(body)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return emptyList
	}
	for _, shape := range shapes {
		if list, ok := shape(obj); ok {
			return list
		}
	}
	return emptyList
}

// {data: [...]}
func dataArray(obj map[string]json.RawMessage) (json.RawMessage, bool) {
	if _, hasSuccess := obj["success"]; hasSuccess {
		return nil, false
	}
	d, ok := obj["data"]
	return d, ok && isArray(d)
}

// {success: true, data: [...]}
func successDataArray(obj map[string]json.RawMessage) (json.RawMessage, bool) {
	var success bool
	if err := json.Unmarshal(obj["success"], &success); err != nil || !success {
		return nil, false
	}
	d, ok := obj["data"]
	return d, ok && isArray(d)
}

// {projects: [...]}
func projectsArray(obj map[string]json.RawMessage) (json.RawMessage, bool) {
	p, ok := obj["projects"]
	return p, ok && isArray(p)
}

// {data: {projects: [...]}}
func dataProjectsArray(obj map[string]json.RawMessage) (json.RawMessage, bool) {
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(obj["data"], &inner); err != nil {
		return nil, false
	}
	return projectsArray(inner)
}

// objectFrom unwraps {data: {...}} and {success, data: {...}}; a bare object passes through.
func objectFrom(body []byte) json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return json.RawMessage(body)
	}
	if d, ok := obj["data"]; ok && isObject(d) {
		return d
	}
	return json.RawMessage(body)
}

func isArray(b []byte) bool {
	var v []json.RawMessage
	return json.Unmarshal(b, &v) == nil && v != nil
}

func isObject(b []byte) bool {
	var v map[string]json.RawMessage
	return json.Unmarshal(b, &v) == nil && v != nil
}
