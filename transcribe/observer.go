package transcribe

// Observer receives notifications at pipeline checkpoints. All methods are
// called synchronously from Transcribe; a nil Observer disables them.
type Observer interface {
	// EvidenceBuilt fires once the observation priors are in place.
	EvidenceBuilt(numFrames int)
	// DecodingComplete fires with the raw state path before segmentation.
	DecodingComplete(path []int)
	// SegmentationComplete fires with the final note list.
	SegmentationComplete(notes []NoteEvent)
}

// ObserverFuncs adapts plain functions to the Observer interface.
// Nil fields are skipped.
type ObserverFuncs struct {
	OnEvidenceBuilt        func(numFrames int)
	OnDecodingComplete     func(path []int)
	OnSegmentationComplete func(notes []NoteEvent)
}

func (o ObserverFuncs) EvidenceBuilt(numFrames int) {
	if o.OnEvidenceBuilt != nil {
		o.OnEvidenceBuilt(numFrames)
	}
}

func (o ObserverFuncs) DecodingComplete(path []int) {
	if o.OnDecodingComplete != nil {
		o.OnDecodingComplete(path)
	}
}

func (o ObserverFuncs) SegmentationComplete(notes []NoteEvent) {
	if o.OnSegmentationComplete != nil {
		o.OnSegmentationComplete(notes)
	}
}
