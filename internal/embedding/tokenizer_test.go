package embedding

import "testing"

func TestWordTokenizerShape(t *testing.T) {
	tok := &WordTokenizer{}
	ids, mask, types := tok.Tokenize("portátil hp victus", 16)
	if len(ids) != 16 || len(mask) != 16 || len(types) != 16 {
		t.Fatalf("lengths %d %d %d, want 16", len(ids), len(mask), len(types))
	}
	if ids[0] != tokenCLS {
		t.Errorf("ids[0] = %d, want CLS", ids[0])
	}
	if ids[4] != tokenSEP {
		t.Errorf("ids[4] = %d, want SEP after three words", ids[4])
	}
	for i := 0; i < 5; i++ {
		if mask[i] != 1 {
			t.Errorf("mask[%d] = %d, want 1", i, mask[i])
		}
	}
	for i := 5; i < 16; i++ {
		if mask[i] != 0 || ids[i] != 0 {
			t.Errorf("padding position %d not zero", i)
		}
	}
}

func TestWordTokenizerTruncates(t *testing.T) {
	tok := &WordTokenizer{}
	ids, mask, _ := tok.Tokenize("uno dos tres cuatro cinco seis siete ocho", 4)
	if len(ids) != 4 {
		t.Fatalf("len = %d", len(ids))
	}
	if ids[0] != tokenCLS || ids[3] != tokenSEP {
		t.Errorf("expected CLS at start and SEP at end, got %v", ids)
	}
	for _, m := range mask {
		if m != 1 {
			t.Error("all positions should be attended when full")
		}
	}
}

func TestWordTokenizerStableIDs(t *testing.T) {
	tok := &WordTokenizer{}
	a, _, _ := tok.Tokenize("televisor samsung", 8)
	b, _, _ := tok.Tokenize("televisor samsung", 8)
	for i := range a {
		if a[i] != b[i] {
			t.Fatal("token IDs differ across calls")
		}
	}
}
