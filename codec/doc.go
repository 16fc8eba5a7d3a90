// Package codec selects and runs a UTF-8 codec strategy.
//
// Two strategies implement the same contract:
//
//	native  golang.org/x/text encoding/unicode
//	pure    the table-driven transcoder package
//
// Select probes them in order and keeps the first one that is available for
// the configured options and reproduces the reference vectors byte for byte.
// Default runs that probe once per process and caches the result; the
// UTF8CODEC_STRATEGY environment variable forces a strategy by name.
//
//	b, err := codec.EncodeString(ctx, "日本語")
//	s, err := codec.DecodeString(ctx, b)
//
// For explicit control, build a Facade from a selected strategy:
//
//	cfg, err := codec.LoadConfig("utf8codec.toml")
//	s, err := codec.Select(cfg)
//	f := codec.NewFacade(codec.Instrument(s, codec.NewMetrics(prometheus.DefaultRegisterer)))
//
// Selection decisions are logged through Logger, which discards output until
// SetLogger is called.
package codec
