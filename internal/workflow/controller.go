package workflow

import "slidecast/internal/domain"

// Controller owns the workflow state of one editing session. It is not safe
// for concurrent use; the session registry serializes access.
type Controller struct {
	state State
}

// NewController returns a controller in the initial state.
func NewController() *Controller {
	return &Controller{state: Initial()}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	return c.state.Clone()
}

// Dispatch applies a and returns the resulting snapshot.
func (c *Controller) Dispatch(a Action) State {
	c.state = Reduce(c.state, a)
	return c.State()
}

// Typed shorthands for Dispatch, one per action. Each applies the action and
// drops the resulting snapshot; call State to read it.

func (c *Controller) GoToStep(step Step)            { c.Dispatch(GoToStep{Step: step}) }
func (c *Controller) NextStep()                     { c.Dispatch(NextStep{}) }
func (c *Controller) PreviousStep()                 { c.Dispatch(PreviousStep{}) }
func (c *Controller) SelectImage(a domain.AssetRef) { c.Dispatch(SelectImage{Asset: a}) }
func (c *Controller) RemoveImage(assetID string)    { c.Dispatch(RemoveImage{AssetID: assetID}) }
func (c *Controller) SetAudioMethod(m AudioMethod)  { c.Dispatch(SetAudioMethod{Method: m}) }
func (c *Controller) SelectAudio(a domain.AssetRef) { c.Dispatch(SelectAudio{Asset: a}) }
func (c *Controller) RemoveAudio(assetID string)    { c.Dispatch(RemoveAudio{AssetID: assetID}) }
func (c *Controller) SetLyrics(text string)         { c.Dispatch(SetLyrics{Text: text}) }
func (c *Controller) SetGenerating(on bool)         { c.Dispatch(SetGenerating{Generating: on}) }
func (c *Controller) ResetWorkflow()                { c.Dispatch(Reset{}) }
