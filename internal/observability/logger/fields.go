package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar HTTP.

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// Campos estándar de negocio.

func Username(v string) zap.Field { return zap.String("username", v) }
func MatchID(v int) zap.Field     { return zap.Int("match_id", v) }
func PlayerID(v int) zap.Field    { return zap.Int("player_id", v) }
func Season(v string) zap.Field   { return zap.String("season", v) }
func Round(v string) zap.Field    { return zap.String("round", v) }

// Campos estándar de sistema.

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }

// Campos genéricos.

func Key(v string) zap.Field                 { return zap.String("key", v) }
func Count(v int) zap.Field                  { return zap.Int("count", v) }
func String(key, v string) zap.Field         { return zap.String(key, v) }
func Int(key string, v int) zap.Field        { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field      { return zap.Bool(key, v) }
func Duration(v time.Duration) zap.Field     { return zap.Duration("duration", v) }
func Any(key string, v any) zap.Field        { return zap.Any(key, v) }
func Strings(key string, v []string) zap.Field { return zap.Strings(key, v) }
