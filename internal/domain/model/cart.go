package model

// POS画面のカート（作成中の販売伝票の明細と顧客）。
// 計算はしない。サーバーの再計算結果で丸ごと置き換える。
type Cart struct {
	Lines    []LineItem `json:"lines"`
	Customer *string    `json:"customer,omitempty"`
}

// 明細を末尾に追加して、追加した明細を返す
func (c *Cart) Add(code, description string) LineItem {
	line := NewLineItem(code, description)
	c.Lines = append(c.Lines, line)
	return line
}

// IDで1行削除
func (c *Cart) Remove(id string) error {
	i := c.IndexOf(id)
	if i < 0 {
		return ErrLineNotFound
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return nil
}

// IDで1行の1項目を編集
func (c *Cart) Edit(id, field, value string) error {
	i := c.IndexOf(id)
	if i < 0 {
		return ErrLineNotFound
	}

	// 失敗したら元の行を残す
	line := c.Lines[i]
	if err := line.Set(field, value); err != nil {
		return err
	}
	c.Lines[i] = line
	return nil
}

// 無ければ-1
func (c *Cart) IndexOf(id string) int {
	for i := range c.Lines {
		if c.Lines[i].ID == id {
			return i
		}
	}
	return -1
}

// 画面のdata-index（位置）からIDへ
func (c *Cart) IDAt(index int) (string, error) {
	if index < 0 || index >= len(c.Lines) {
		return "", ErrLineNotFound
	}
	return c.Lines[index].ID, nil
}

func (c *Cart) SetCustomer(code string) {
	if code == "" {
		c.Customer = nil
		return
	}
	c.Customer = &code
}

func (c *Cart) Len() int {
	return len(c.Lines)
}

// スナップショット用のコピー
func (c *Cart) CloneLines() []LineItem {
	out := make([]LineItem, len(c.Lines))
	copy(out, c.Lines)
	return out
}
