package popup

import "sync"

// Presenter shows and hides the three regions of the popup.
type Presenter interface {
	SetMessage(text string)
	ClearMessage()
	SetAnswer(text string)
	ClearAnswer()
	SetLoading()
	ClearLoading()
}

// Region is one text region of the popup.
type Region struct {
	Text   string
	Hidden bool
}

// View is a snapshot of all regions.
type View struct {
	Loading bool
	Message Region
	Answer  Region
}

// Panels is a Presenter that keeps the regions in memory and notifies a
// listener after every change. It is safe for concurrent use.
type Panels struct {
	mu       sync.Mutex
	view     View
	listener func(View)
}

// NewPanels returns panels with every region hidden.
func NewPanels() *Panels {
	return &Panels{view: View{
		Message: Region{Hidden: true},
		Answer:  Region{Hidden: true},
	}}
}

// OnChange registers fn to receive a snapshot after each change. fn runs
// outside the panel lock.
func (p *Panels) OnChange(fn func(View)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = fn
}

// Snapshot returns the current view.
func (p *Panels) Snapshot() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

func (p *Panels) update(fn func(v *View)) {
	p.mu.Lock()
	fn(&p.view)
	view := p.view
	listener := p.listener
	p.mu.Unlock()

	if listener != nil {
		listener(view)
	}
}

// SetMessage implements Presenter.
func (p *Panels) SetMessage(text string) {
	p.update(func(v *View) { v.Message = Region{Text: text} })
}

// ClearMessage implements Presenter.
func (p *Panels) ClearMessage() {
	p.update(func(v *View) { v.Message = Region{Hidden: true} })
}

// SetAnswer implements Presenter.
func (p *Panels) SetAnswer(text string) {
	p.update(func(v *View) { v.Answer = Region{Text: text} })
}

// ClearAnswer implements Presenter.
func (p *Panels) ClearAnswer() {
	p.update(func(v *View) { v.Answer = Region{Hidden: true} })
}

// SetLoading implements Presenter.
func (p *Panels) SetLoading() {
	p.update(func(v *View) { v.Loading = true })
}

// ClearLoading implements Presenter.
func (p *Panels) ClearLoading() {
	p.update(func(v *View) { v.Loading = false })
}
