package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mpdscribble-go/mpdscribble/internal/record"
	"gopkg.in/ini.v1"
)

// loadIgnoreList reads the ignore_list file named by sec's "ignore_list"
// key, if any, grounded on the original mpdscribble's IgnoreList.cxx:
// blank-line-separated stanzas of "field=value" lines, each stanza one
// entry. A missing key is not an error; the scrobbler simply has no
// ignore list.
func loadIgnoreList(sec *ini.Section) (record.IgnoreList, error) {
	if !sec.HasKey("ignore_list") {
		return nil, nil
	}
	path := sec.Key("ignore_list").String()
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ignore list %s: %w", path, err)
	}
	defer f.Close()

	return parseIgnoreList(f)
}

func parseIgnoreList(f *os.File) (record.IgnoreList, error) {
	var list record.IgnoreList
	var cur record.IgnoreListEntry
	haveEntry := false

	flush := func() {
		if haveEntry {
			list = append(list, cur)
		}
		cur = record.IgnoreListEntry{}
		haveEntry = false
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "artist":
			cur.Artist = value
		case "album":
			cur.Album = value
		case "title", "track_name":
			cur.Title = value
		case "track", "tracknumber":
			cur.TrackNumber = value
		default:
			continue
		}
		haveEntry = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return list, nil
}
