package pinyin

// Input is one of the three accepted input shapes: Single, Flat or Nested.
type Input interface {
	isInput()
}

// Single is one string: a run of characters for Render and EncodeHanzi, or
// one rendered syllable for EncodePinyin.
type Single string

// Flat is an ordered sequence of strings.
type Flat []string

// Nested is an ordered sequence of Flat sequences.
type Nested [][]string

func (Single) isInput() {}
func (Flat) isInput()   {}
func (Nested) isInput() {}
