package tokenize

import (
	"errors"
	"reflect"
	"testing"
)

func TestScript_Terms(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		contentOnly bool
		want        []string
	}{
		{
			name:        "mixed scripts content only",
			text:        "東京タワーに行きました。Hello the World 2024",
			contentOnly: true,
			want:        []string{"東京", "タワー", "行", "hello", "world"},
		},
		{
			name:        "all tokens",
			text:        "東京タワーに行きました。",
			contentOnly: false,
			want:        []string{"東京", "タワー", "に", "行", "きました"},
		},
		{
			name:        "full-width latin is normalized",
			text:        "ＡＢＣとabc",
			contentOnly: true,
			want:        []string{"abc", "abc"},
		},
		{
			name:        "half-width katakana is normalized",
			text:        "ｶﾀｶﾅ",
			contentOnly: true,
			want:        []string{"カタカナ"},
		},
		{
			name:        "single letters and digits are function words",
			text:        "a 1 b 22",
			contentOnly: true,
			want:        []string{},
		},
		{
			name:        "punctuation only",
			text:        "。、！？「」",
			contentOnly: false,
			want:        []string{},
		},
	}

	tok := NewScript()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Terms(tok, tt.text, tt.contentOnly)
			if err != nil {
				t.Fatalf("Terms() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Terms(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestIsContentMorph(t *testing.T) {
	tests := []struct {
		name       string
		surface    string
		pos        []string
		inflection string
		base       string
		want       bool
	}{
		{"noun", "学校", []string{"名詞", "一般"}, "*", "学校", true},
		{"verb", "行っ", []string{"動詞", "自立"}, "五段・カ行促音便", "行く", true},
		{"adjective", "高い", []string{"形容詞", "自立"}, "形容詞・アウオ段", "高い", true},
		{"particle", "は", []string{"助詞", "係助詞"}, "*", "は", false},
		{"auxiliary", "た", []string{"助動詞"}, "特殊・タ", "た", false},
		{"suffix noun", "さん", []string{"名詞", "接尾", "人名"}, "*", "さん", false},
		{"dependent verb", "いる", []string{"動詞", "非自立"}, "一段", "いる", false},
		{"suru verb", "し", []string{"動詞", "自立"}, "サ変・スル", "する", false},
		{"aru", "あっ", []string{"動詞", "自立"}, "五段・ラ行", "ある", false},
		{"number", "２０２４", []string{"名詞", "数"}, "*", "２０２４", false},
		{"ascii symbols", "!?", []string{"記号", "一般"}, "*", "!?", false},
		{"empty", "", []string{"名詞"}, "*", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isContentMorph(tt.surface, tt.pos, tt.inflection, tt.base)
			if got != tt.want {
				t.Errorf("isContentMorph(%q, %v) = %v, want %v", tt.surface, tt.pos, got, tt.want)
			}
		})
	}
}

func TestKagome_Terms(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping dictionary load in short mode")
	}

	tok, err := New("kagome")
	if err != nil {
		t.Fatalf("New(kagome) error = %v", err)
	}
	got, err := Terms(tok, "太郎は学校に行った。", true)
	if err != nil {
		t.Fatalf("Terms() error = %v", err)
	}
	want := []string{"太郎", "学校", "行く"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms() = %q, want %q", got, want)
	}

	again, err := New("kagome")
	if err != nil {
		t.Fatalf("second New(kagome) error = %v", err)
	}
	if again != tok {
		t.Error("expected the kagome tokenizer to be shared")
	}
}

func TestNew(t *testing.T) {
	tok, err := New("")
	if err != nil {
		t.Fatalf("New(\"\") error = %v", err)
	}
	if _, ok := tok.(*Script); !ok {
		t.Errorf("default tokenizer = %T, want *Script", tok)
	}

	_, err = New("mecab")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("New(mecab) error = %v, want ErrUnavailable", err)
	}
}

func TestRegister_FailingFactory(t *testing.T) {
	Register("broken", func() (Tokenizer, error) { return nil, errors.New("boom") })
	t.Cleanup(func() {
		registryMu.Lock()
		delete(registry, "broken")
		registryMu.Unlock()
	})

	_, err := New("broken")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("New(broken) error = %v, want ErrUnavailable", err)
	}
}
