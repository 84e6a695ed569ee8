package record

import "testing"

func TestSourceFromURI(t *testing.T) {
	cases := []struct {
		uri  string
		want Source
	}{
		{"http://stream.example/live.mp3", SourceRadio},
		{"file:///home/user/music/song.mp3", SourceRadio},
		{"/home/user/music/song.mp3", SourcePlaylist},
		{"song.mp3", SourcePlaylist},
	}
	for _, tc := range cases {
		if got := SourceFromURI(tc.uri); got != tc.want {
			t.Errorf("SourceFromURI(%q) = %q, want %q", tc.uri, got, tc.want)
		}
	}
}

func TestIgnoreListEntryMatches(t *testing.T) {
	entry := IgnoreListEntry{Artist: "X"}

	match := Record{Artist: "X", Track: "anything", Album: "whatever"}
	if !entry.Matches(match) {
		t.Errorf("expected entry to match record with artist=X regardless of other fields")
	}

	noMatch := Record{Artist: "Y", Track: "anything"}
	if entry.Matches(noMatch) {
		t.Errorf("expected entry not to match record with artist!=X")
	}
}

func TestIgnoreListEntryWildcardFields(t *testing.T) {
	entry := IgnoreListEntry{Artist: "X", Title: "T"}

	if !entry.Matches(Record{Artist: "X", Track: "T", Album: "anything"}) {
		t.Errorf("expected match: artist and title equal, album is a wildcard")
	}
	if entry.Matches(Record{Artist: "X", Track: "other"}) {
		t.Errorf("expected no match: title differs")
	}
}

func TestRecordValid(t *testing.T) {
	if (Record{Artist: "A", Track: ""}).Valid() {
		t.Errorf("record with empty track should be invalid")
	}
	if (Record{Artist: "", Track: "T"}).Valid() {
		t.Errorf("record with empty artist should be invalid")
	}
	if !(Record{Artist: "A", Track: "T"}).Valid() {
		t.Errorf("record with both fields set should be valid")
	}
}
