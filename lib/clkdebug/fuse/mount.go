// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package fuse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"

	"github.com/clktree-foundation/clktree/lib/clkdebug"
	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// Options configures the FUSE mount.
type Options struct {
	// Mountpoint is the directory where the attribute tree is
	// mounted. It becomes the clk/ root.
	Mountpoint string

	// Debug is the debug context whose attribute tree is exposed.
	Debug *clkdebug.Debug

	// AllowOther permits other users (including root) to access the
	// mount. Requires user_allow_other in /etc/fuse.conf.
	AllowOther bool

	// Logger receives diagnostic messages. If nil, a no-op logger is
	// used.
	Logger *slog.Logger
}

// Mount mounts the attribute tree at the configured mountpoint. The
// caller must call Unmount on the returned Server when done. The
// mountpoint directory is created if it does not exist.
func Mount(options Options) (*fuse.Server, error) {
	if options.Mountpoint == "" {
		return nil, fmt.Errorf("mountpoint is required")
	}
	if options.Debug == nil {
		return nil, fmt.Errorf("debug context is required")
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(options.Mountpoint, 0o755); err != nil {
		return nil, fmt.Errorf("creating mountpoint %s: %w", options.Mountpoint, err)
	}

	root := &rootNode{options: &options}

	entryTimeout := 1 * time.Second
	attrTimeout := 1 * time.Second
	negativeTimeout := 100 * time.Millisecond

	server, err := gofuse.Mount(options.Mountpoint, root, &gofuse.Options{
		EntryTimeout:    &entryTimeout,
		AttrTimeout:     &attrTimeout,
		NegativeTimeout: &negativeTimeout,
		MountOptions: fuse.MountOptions{
			FsName:     "clktree-debug",
			Name:       "clkdebug",
			AllowOther: options.AllowOther,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mounting FUSE filesystem at %s: %w", options.Mountpoint, err)
	}

	options.Logger.Info("clock debug filesystem mounted", "mountpoint", options.Mountpoint)
	return server, nil
}

// rootNode is the clk/ root: the root-level scalars plus one directory
// per registered clock. Lookup and Readdir go to the Debug context on
// every call so clocks added after the mount appear immediately.
type rootNode struct {
	gofuse.Inode
	options *Options
}

var _ gofuse.InodeEmbedder = (*rootNode)(nil)
var _ gofuse.NodeLookuper = (*rootNode)(nil)
var _ gofuse.NodeReaddirer = (*rootNode)(nil)

func (r *rootNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	for _, attr := range r.options.Debug.RootAttrs() {
		if attr.Name == name {
			return makeAttrInode(ctx, &r.Inode, r.options, attr, out)
		}
	}

	group, ok := r.options.Debug.Group(name)
	if !ok {
		return nil, syscall.ENOENT
	}
	child := r.NewPersistentInode(ctx, &groupNode{options: r.options, group: group},
		gofuse.StableAttr{Mode: syscall.S_IFDIR})
	out.Mode = syscall.S_IFDIR | 0o555
	return child, 0
}

func (r *rootNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	var entries []fuse.DirEntry
	for _, attr := range r.options.Debug.RootAttrs() {
		entries = append(entries, fuse.DirEntry{Name: attr.Name, Mode: syscall.S_IFREG})
	}
	for _, group := range r.options.Debug.Groups() {
		entries = append(entries, fuse.DirEntry{Name: group.Name, Mode: syscall.S_IFDIR})
	}
	return &sliceDirStream{entries: entries}, 0
}

// groupNode is one clock's directory, holding its attribute files.
type groupNode struct {
	gofuse.Inode
	options *Options
	group   *clkdebug.AttrGroup
}

var _ gofuse.InodeEmbedder = (*groupNode)(nil)
var _ gofuse.NodeLookuper = (*groupNode)(nil)
var _ gofuse.NodeReaddirer = (*groupNode)(nil)

func (g *groupNode) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	attr, ok := g.group.Attr(name)
	if !ok {
		return nil, syscall.ENOENT
	}
	return makeAttrInode(ctx, &g.Inode, g.options, attr, out)
}

func (g *groupNode) Readdir(ctx context.Context) (gofuse.DirStream, syscall.Errno) {
	entries := make([]fuse.DirEntry, 0, len(g.group.Attrs))
	for _, attr := range g.group.Attrs {
		entries = append(entries, fuse.DirEntry{Name: attr.Name, Mode: syscall.S_IFREG})
	}
	return &sliceDirStream{entries: entries}, 0
}

func makeAttrInode(ctx context.Context, parent *gofuse.Inode, options *Options, attr clkdebug.Attr, out *fuse.EntryOut) (*gofuse.Inode, syscall.Errno) {
	node := &attrNode{options: options, attr: attr}
	child := parent.NewPersistentInode(ctx, node, gofuse.StableAttr{Mode: syscall.S_IFREG})
	out.Mode = syscall.S_IFREG | attrPermissions(attr)
	return child, 0
}

func attrPermissions(attr clkdebug.Attr) uint32 {
	if attr.Writable {
		return 0o644
	}
	return 0o444
}

// sliceDirStream implements fs.DirStream from a slice of entries.
type sliceDirStream struct {
	entries []fuse.DirEntry
	index   int
}

func (s *sliceDirStream) HasNext() bool {
	return s.index < len(s.entries)
}

func (s *sliceDirStream) Next() (fuse.DirEntry, syscall.Errno) {
	if s.index >= len(s.entries) {
		return fuse.DirEntry{}, syscall.EINVAL
	}
	entry := s.entries[s.index]
	s.index++
	return entry, 0
}

func (s *sliceDirStream) Close() {}
