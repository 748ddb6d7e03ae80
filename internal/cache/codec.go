// Package cache реализует cache-aside слой поверх KV-порта:
// по менеджеру на вид сущности, чтение сквозь кеш, инвалидация на запись.
// Отказ кеша никогда не фатален: чтение деградирует в промах,
// запись — в no-op с логом.
package cache

import jsoniter "github.com/json-iterator/go"

// jsoniter — для горячего пути сериализации кешируемых значений.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// negative — маркер «подтверждённо отсутствует», кешируем чтобы
// не пробивать кеш повторными запросами несуществующих id.
var negative = []byte("null")

func isNegative(b []byte) bool { return string(b) == "null" }
