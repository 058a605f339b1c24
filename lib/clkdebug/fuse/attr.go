// Copyright 2026 The Clktree Authors
// SPDX-License-Identifier: Apache-2.0

package fuse

import (
	"context"
	"errors"
	"syscall"

	"github.com/clktree-foundation/clktree/lib/clkdebug"
	gofuse "github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// attrNode is a single attribute file. Content is rendered at open
// time and served with direct I/O, so the kernel never caches it and
// every open observes current clock state.
type attrNode struct {
	gofuse.Inode
	options *Options
	attr    clkdebug.Attr
}

var _ gofuse.InodeEmbedder = (*attrNode)(nil)
var _ gofuse.NodeGetattrer = (*attrNode)(nil)
var _ gofuse.NodeSetattrer = (*attrNode)(nil)
var _ gofuse.NodeOpener = (*attrNode)(nil)
var _ gofuse.NodeReader = (*attrNode)(nil)
var _ gofuse.NodeWriter = (*attrNode)(nil)

// attrHandle carries the content rendered when the file was opened.
// Nil content for write-only opens.
type attrHandle struct {
	content []byte
}

func (a *attrNode) Getattr(ctx context.Context, f gofuse.FileHandle, out *fuse.AttrOut) syscall.Errno {
	// Size 0 like kernel debugfs scalars; reads work regardless
	// because the file is served with direct I/O.
	out.Mode = syscall.S_IFREG | attrPermissions(a.attr)
	return 0
}

// Setattr accepts size changes so that O_TRUNC opens (shell
// redirection) succeed. There is no stored content to truncate.
func (a *attrNode) Setattr(ctx context.Context, f gofuse.FileHandle, in *fuse.SetAttrIn, out *fuse.AttrOut) syscall.Errno {
	out.Mode = syscall.S_IFREG | attrPermissions(a.attr)
	return 0
}

func (a *attrNode) Open(ctx context.Context, flags uint32) (gofuse.FileHandle, uint32, syscall.Errno) {
	wantsWrite := flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0
	if wantsWrite && !a.attr.Writable {
		return nil, 0, syscall.EROFS
	}

	handle := &attrHandle{}
	if flags&syscall.O_ACCMODE != syscall.O_WRONLY {
		content, err := a.attr.Read()
		if err != nil {
			a.options.Logger.Debug("attribute read failed",
				"attr", a.attr.Name,
				"error", err,
			)
			return nil, 0, errnoForRead(err)
		}
		handle.content = content
	}

	return handle, fuse.FOPEN_DIRECT_IO, 0
}

func (a *attrNode) Read(ctx context.Context, f gofuse.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	handle, ok := f.(*attrHandle)
	if !ok {
		return nil, syscall.EBADF
	}
	if off >= int64(len(handle.content)) {
		return fuse.ReadResultData(nil), 0
	}
	end := off + int64(len(dest))
	if end > int64(len(handle.content)) {
		end = int64(len(handle.content))
	}
	return fuse.ReadResultData(handle.content[off:end]), 0
}

func (a *attrNode) Write(ctx context.Context, f gofuse.FileHandle, data []byte, off int64) (uint32, syscall.Errno) {
	if !a.attr.Writable {
		return 0, syscall.EROFS
	}
	if err := a.attr.Write(data); err != nil {
		a.options.Logger.Debug("attribute write failed",
			"attr", a.attr.Name,
			"error", err,
		)
		return 0, errnoForWrite(err)
	}
	return uint32(len(data)), 0
}

// errnoForRead maps an attribute read failure. A failed measurement
// reparent or a released facility surfaces as a device-level error;
// anything else is an I/O error.
func errnoForRead(err error) syscall.Errno {
	switch {
	case errors.Is(err, clkdebug.ErrUnavailable):
		return syscall.ENODEV
	case errors.Is(err, clkdebug.ErrUnsupported):
		return syscall.EOPNOTSUPP
	default:
		return syscall.EIO
	}
}

// errnoForWrite maps an attribute write failure. Missing capability is
// distinguished; rejected values (parse failures, driver rejections)
// are invalid arguments.
func errnoForWrite(err error) syscall.Errno {
	switch {
	case errors.Is(err, clkdebug.ErrUnsupported):
		return syscall.EOPNOTSUPP
	case errors.Is(err, clkdebug.ErrUnavailable):
		return syscall.ENODEV
	default:
		return syscall.EINVAL
	}
}
