package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/llehouerou/lyricsync/internal/errmsg"
	"github.com/llehouerou/lyricsync/internal/ui/render"
)

// CacheCmd groups the lyrics cache commands.
type CacheCmd struct {
	Ls    CacheLsCmd    `cmd:"" help:"List cached lyrics"`
	Rm    CacheRmCmd    `cmd:"" help:"Remove cached lyrics of a track"`
	Prune CachePruneCmd `cmd:"" help:"Remove old cache entries"`
}

// CacheLsCmd lists cache entries, most recent first.
type CacheLsCmd struct{}

// Column widths of the cache table.
const (
	colCacheArtist = 24
	colCacheTitle  = 30
	colCacheKind   = 9
	colCacheSize   = 9
)

func (c *CacheLsCmd) Run(env *Env) error {
	cache, err := env.requireCache()
	if err != nil {
		return err
	}
	defer closeCache(cache)

	entries, err := cache.List()
	if err != nil {
		return failed(errmsg.OpCacheList, "", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(env.Stdout, "no cached lyrics")
		return nil
	}

	now := env.Now()
	fmt.Fprintln(env.Stdout, cacheRow("ARTIST", "TITLE", "LYRICS", "SIZE", "FETCHED"))
	for i := range entries {
		e := &entries[i]
		kind := "plain"
		if e.Synced {
			kind = "synced"
		}
		fmt.Fprintln(env.Stdout, cacheRow(
			e.Artist,
			e.Title,
			kind,
			humanize.Bytes(uint64(len(e.Content))),
			humanize.RelTime(e.FetchedAt, now, "ago", "from now"),
		))
	}
	return nil
}

func cacheRow(artist, title, kind, size, age string) string {
	return render.TruncateAndPad(artist, colCacheArtist) + " " +
		render.TruncateAndPad(title, colCacheTitle) + " " +
		render.Pad(kind, colCacheKind) +
		render.Pad(size, colCacheSize) +
		age
}

// CacheRmCmd removes the cached lyrics of a track.
type CacheRmCmd struct {
	Artist string `arg:"" help:"Track artist"`
	Title  string `arg:"" help:"Track title"`
}

func (c *CacheRmCmd) Run(env *Env) error {
	cache, err := env.requireCache()
	if err != nil {
		return err
	}
	defer closeCache(cache)

	name := c.Artist + " - " + c.Title
	deleted, err := cache.Delete(c.Artist, c.Title)
	if err != nil {
		return failed(errmsg.OpCacheDelete, name, err)
	}
	if !deleted {
		return fmt.Errorf("no cached lyrics for %s", name)
	}
	fmt.Fprintf(env.Stdout, "removed %s\n", name)
	return nil
}

// CachePruneCmd removes entries fetched before a cutoff.
type CachePruneCmd struct {
	OlderThan time.Duration `name:"older-than" help:"Remove entries older than this (default: cache TTL)"`
	All       bool          `help:"Remove every entry"`
}

func (c *CachePruneCmd) Run(env *Env) error {
	cache, err := env.requireCache()
	if err != nil {
		return err
	}
	defer closeCache(cache)

	age := c.OlderThan
	if age <= 0 {
		age = env.Config.CacheTTL()
	}
	cutoff := env.Now().Add(-age)
	if c.All {
		cutoff = env.Now().Add(time.Nanosecond)
	}

	n, err := cache.Prune(cutoff)
	if err != nil {
		return failed(errmsg.OpCachePrune, "", err)
	}
	noun := "entries"
	if n == 1 {
		noun = "entry"
	}
	fmt.Fprintf(env.Stdout, "removed %s cache %s\n", humanize.Comma(n), noun)
	return nil
}
