package bot

import (
	"reflect"
	"testing"
)

func TestParseCommand(t *testing.T) {
	p := NewCommandParser()

	tests := []struct {
		text    string
		cmd     string
		args    []string
		isCmd   bool
	}{
		{"!sign", "sign", nil, true},
		{".lottery", "lottery", nil, true},
		{"/buy @alice", "buy", []string{"@alice"}, true},
		{"/sign@AstrMarketBot", "sign", nil, true},
		{"  !gift   @bob   50  ", "gift", []string{"@bob", "50"}, true},
		{"!SHOP food", "shop", []string{"food"}, true},
		{"hello there", "", nil, false},
		{"!", "", nil, false},
		{"", "", nil, false},
	}
	for _, tt := range tests {
		cmd, args, isCmd := p.ParseCommand(tt.text)
		if cmd != tt.cmd || isCmd != tt.isCmd || !reflect.DeepEqual(args, tt.args) {
			t.Errorf("ParseCommand(%q) = %q %v %v, want %q %v %v",
				tt.text, cmd, args, isCmd, tt.cmd, tt.args, tt.isCmd)
		}
	}
}

func TestStripMentions(t *testing.T) {
	got := stripMentions([]string{"@alice", "50", "@bob", "flower"})
	want := []string{"50", "flower"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("stripMentions = %v, want %v", got, want)
	}
}
