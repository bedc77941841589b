package model

import "net/url"

// 販売伝票フォームのコントロール1つ
type FormControl struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Checked bool   `json:"checked,omitempty"`
}

const ControlCheckbox = "checkbox"

type Form []FormControl

// サーバーへ送るフォームの値（checkboxはチェック時だけ送る）
func (f Form) Values() url.Values {
	v := url.Values{}
	for _, c := range f {
		if c.Name == "" {
			continue
		}
		if c.Type == ControlCheckbox {
			if c.Checked {
				v.Set(c.Name, "1")
			}
			continue
		}
		v.Set(c.Name, c.Value)
	}
	return v
}

// nameで値をセット。無ければ何もしない
func (f Form) Set(name, value string) {
	for i := range f {
		if f[i].Name == name {
			f[i].Value = value
		}
	}
}

func (f Form) Get(name string) (FormControl, bool) {
	for _, c := range f {
		if c.Name == name {
			return c, true
		}
	}
	return FormControl{}, false
}

func (f Form) Clone() Form {
	out := make(Form, len(f))
	copy(out, f)
	return out
}
