package hearts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// Key normalizes a game identifier the way it is stored: "Bubble Pop" and
// "bubble-pop" address the same pool.
func Key(s string) string {
	return slug.Make(strings.TrimSpace(s))
}

// Decode reads a stored hearts document in any of the shapes it has had over
// time and returns the canonical map. Accepted shapes:
//
//	{"runner": 3}
//	{"runner": "3"}
//	{"runner": {"count": 3}}          also "hearts" or "value"
//	[{"game": "runner", "hearts": 3}] also "gameKey"/"key" and "count"
//
// Keys are slugified and negative counts are clamped to zero.
func Decode(raw []byte) (map[string]int, error) {
	out := make(map[string]int)

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any

	err := dec.Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("decode hearts: %w", err)
	}

	switch v := doc.(type) {
	case map[string]any:
		for game, val := range v {
			n, err := countOf(val)
			if err != nil {
				return nil, fmt.Errorf("hearts[%s]: %w", game, err)
			}

			put(out, game, n)
		}
	case []any:
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("hearts[%d]: not an object", i)
			}

			game := firstString(obj, "game", "gameKey", "key")
			if game == "" {
				return nil, fmt.Errorf("hearts[%d]: missing game key", i)
			}

			n, err := countOf(firstPresent(obj, "hearts", "count"))
			if err != nil {
				return nil, fmt.Errorf("hearts[%d]: %w", i, err)
			}

			put(out, game, n)
		}
	default:
		return nil, fmt.Errorf("decode hearts: unsupported shape %T", doc)
	}

	return out, nil
}

// Encode writes the canonical shape.
func Encode(m map[string]int) ([]byte, error) {
	if m == nil {
		m = map[string]int{}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode hearts: %w", err)
	}

	return b, nil
}

func put(out map[string]int, game string, n int) {
	k := Key(game)
	if k == "" {
		return
	}

	if prev, ok := out[k]; ok && prev > n {
		return
	}

	out[k] = max(n, 0)
}

func countOf(v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		return numberToInt(x.String())
	case string:
		return numberToInt(strings.TrimSpace(x))
	case map[string]any:
		return countOf(firstPresent(x, "count", "hearts", "value"))
	default:
		return 0, fmt.Errorf("unsupported count type %T", v)
	}
}

func numberToInt(s string) (int, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return int(i), nil
	}

	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil {
		return 0, fmt.Errorf("parse count %q: %w", s, err)
	}

	return int(math.Floor(f)), nil
}

func firstPresent(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v
		}
	}

	return nil
}

func firstString(obj map[string]any, keys ...string) string {
	s, _ := firstPresent(obj, keys...).(string)
	return s
}
