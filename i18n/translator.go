package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "type" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "parse_error":
			return "解析エラー" + suffix(data, "detail")
		case "empty_input":
			return "入力が空です"
		case "trailing_data":
			return "値の後ろに余分なデータがあります" + suffix(data, "token")
		case "max_depth":
			return "ネストが深すぎます"
		case "max_bytes":
			return "入力が上限サイズを超えています"
		case "duplicate_key":
			return "キーが重複しています" + suffix(data, "key")
		case "truncated":
			return "打ち切られました"
		case "invalid_path":
			return "キーパスが不正です" + suffix(data, "path")
		case "invalid_type":
			return "型が不正です"
		case "unsupported_type":
			return "対応していない型です" + suffix(data, "type")
		}
	default: // "en"
		switch code {
		case "parse_error":
			return "parse error" + suffix(data, "detail")
		case "empty_input":
			return "empty input"
		case "trailing_data":
			return "trailing data after value" + suffix(data, "token")
		case "max_depth":
			return "max depth exceeded"
		case "max_bytes":
			return "max bytes exceeded"
		case "duplicate_key":
			return "duplicate key" + suffix(data, "key")
		case "truncated":
			return "truncated"
		case "invalid_path":
			return "invalid key path" + suffix(data, "path")
		case "invalid_type":
			return "invalid type"
		case "unsupported_type":
			return "no codec for type" + suffix(data, "type")
		}
	}
	return code
}

func suffix(data map[string]string, key string) string {
	if v, ok := data[key]; ok && v != "" {
		return ": " + v
	}
	return ""
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
