package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Валидация входящих команд по JSON-схеме. Схема встроена в бинарь и
// компилируется один раз при старте пакета: битая схема — ошибка
// программиста, падаем сразу.

const commandSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"enum": ["START", "ATTACH", "INPUT", "STOP"]},
    "session": {"type": "string", "maxLength": 64},
    "payload": {"type": "object"}
  },
  "allOf": [
    {
      "if": {"properties": {"type": {"const": "START"}}},
      "then": {
        "properties": {
          "payload": {
            "type": "object",
            "properties": {
              "stage": {"type": "string", "maxLength": 32},
              "seed": {"type": "string", "maxLength": 64}
            },
            "additionalProperties": false
          }
        }
      }
    },
    {
      "if": {"properties": {"type": {"const": "INPUT"}}},
      "then": {
        "required": ["session", "payload"],
        "properties": {
          "payload": {
            "type": "object",
            "required": ["dx", "dy"],
            "properties": {
              "dx": {"type": "integer", "minimum": -1, "maximum": 1},
              "dy": {"type": "integer", "minimum": -1, "maximum": 1},
              "jump": {"type": "boolean"},
              "enter": {"type": "boolean"},
              "mark": {"type": "boolean"}
            },
            "additionalProperties": false
          }
        }
      }
    },
    {
      "if": {"properties": {"type": {"const": "ATTACH"}}},
      "then": {"required": ["session"]}
    },
    {
      "if": {"properties": {"type": {"const": "STOP"}}},
      "then": {"required": ["session"]}
    }
  ]
}`

var commandSchema = jsonschema.MustCompileString("command.json", commandSchemaJSON)

// ParseCommand разбирает и валидирует сырое сообщение клиента.
// Невалидная команда — ошибка, а не паника: ее превращают в ERROR-ответ.
func ParseCommand(raw []byte) (*ClientCommand, error) {
	var probe any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&probe); err != nil {
		return nil, fmt.Errorf("malformed json: %w", err)
	}

	if err := commandSchema.Validate(probe); err != nil {
		return nil, fmt.Errorf("schema violation: %w", err)
	}

	var cmd ClientCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	return &cmd, nil
}

// ParseInput разбирает payload команды INPUT (после схемной проверки).
func ParseInput(payload json.RawMessage) (InputPayload, error) {
	var in InputPayload
	if err := json.Unmarshal(payload, &in); err != nil {
		return InputPayload{}, fmt.Errorf("decode input payload: %w", err)
	}
	return in, nil
}

// ParseStart разбирает payload команды START (payload может отсутствовать).
func ParseStart(payload json.RawMessage) (StartPayload, error) {
	var st StartPayload
	if len(payload) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(payload, &st); err != nil {
		return StartPayload{}, fmt.Errorf("decode start payload: %w", err)
	}
	return st, nil
}
