package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// 古い再計算レスポンス（その後にローカル変更あり）
var ErrStaleResponse = errors.New("stale response")

// 端末1台分のPOS状態。
// 更新は Apply だけで行う。ローカル変更のたびに Revision が増える。
// SyncedRevision は Doc（合計など）がサーバーと一致している Revision。
type Session struct {
	TerminalID     string    `json:"terminal_id"`
	OperatorID     int64     `json:"operator_id"`
	Cart           Cart      `json:"cart"`
	CustomerName   string    `json:"customer_name"`
	Doc            Document  `json:"doc"`
	Form           Form      `json:"form"`
	Revision       uint64    `json:"revision"`
	SyncedRevision uint64    `json:"synced_revision"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Doc が今の明細の再計算結果か
func (s *Session) Synced() bool {
	return s.SyncedRevision == s.Revision
}

func NewSession(terminalID string, form Form) *Session {
	return &Session{
		TerminalID: terminalID,
		Doc:        Document{},
		Form:       form.Clone(),
	}
}

// 状態遷移
type Transition interface {
	apply(s *Session) error
}

func (s *Session) Apply(t Transition) error {
	if err := t.apply(s); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	return nil
}

type AddLine struct {
	Code        string
	Description string
}

func (t AddLine) apply(s *Session) error {
	s.Cart.Add(t.Code, t.Description)
	s.Revision++
	return nil
}

type RemoveLine struct {
	ID string
}

func (t RemoveLine) apply(s *Session) error {
	if err := s.Cart.Remove(t.ID); err != nil {
		return err
	}
	s.Revision++
	return nil
}

type EditLine struct {
	ID    string
	Field string
	Value string
}

func (t EditLine) apply(s *Session) error {
	if err := s.Cart.Edit(t.ID, t.Field, t.Value); err != nil {
		return err
	}
	s.Revision++
	return nil
}

type SetCustomer struct {
	Code string
	Name string
}

func (t SetCustomer) apply(s *Session) error {
	s.Cart.SetCustomer(t.Code)
	s.CustomerName = t.Name
	s.Form.Set(DocCustomerCode, t.Code)
	s.Revision++
	return nil
}

// サーバーの結果で丸ごと置き換える（マージしない）。
// Revision は送信時点のもの。一致しなければ ErrStaleResponse。
type ReplaceFromServer struct {
	Response DocumentResponse
	Revision uint64
	// view.Project済みのフォーム
	Form Form
}

func (t ReplaceFromServer) apply(s *Session) error {
	if t.Revision != s.Revision {
		return ErrStaleResponse
	}

	// サーバーはidを返さないことがある。
	// Revisionが一致しているので、行数が同じなら同じ位置の行のIDを引き継ぐ。
	sameShape := len(t.Response.Lines) == len(s.Cart.Lines)

	lines := make([]LineItem, 0, len(t.Response.Lines))
	for i, l := range t.Response.Lines {
		if l.ID == "" {
			if sameShape {
				l.ID = s.Cart.Lines[i].ID
			} else {
				l.ID = uuid.NewString()
			}
		}
		lines = append(lines, l)
	}

	doc := t.Response.Doc
	if doc == nil {
		doc = Document{}
	}

	// 顧客はdocにcodclienteがあるときだけ上書き（フォームの写し方と同じ）
	s.Cart = Cart{Lines: lines, Customer: s.Cart.Customer}
	if _, ok := doc[DocCustomerCode]; ok {
		s.Cart.SetCustomer(doc.CustomerCode())
	}
	if name := doc.CustomerName(); name != "" {
		s.CustomerName = name
	}
	s.Doc = doc
	if t.Form != nil {
		s.Form = t.Form
	}
	s.SyncedRevision = s.Revision
	return nil
}

// 伝票を破棄して空に戻す（保存・一時停止・再開のあと）。
// Keep はサーバーへ送っていない明細。新しい伝票に残し、再計算待ちにする。
type Reset struct {
	Form Form
	Keep []LineItem
}

func (t Reset) apply(s *Session) error {
	s.Cart = Cart{}
	if len(t.Keep) > 0 {
		s.Cart.Lines = append([]LineItem(nil), t.Keep...)
	}
	s.CustomerName = ""
	s.Doc = Document{}
	s.Form = t.Form.Clone()
	s.Revision++
	if len(t.Keep) == 0 {
		s.SyncedRevision = s.Revision
	}
	return nil
}
