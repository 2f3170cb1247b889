package exchange

import (
	"bytes"
	"errors"
	"io"
	"math"
)

// maxVersionLen bounds the version token of the request line.
const maxVersionLen = 16

// ReadRequest runs the parse phase once. Protocol and limit violations stage
// an error response and return StateRejected; transport failures return
// StateAborted and leave nothing to write.
func (ex *Exchange) ReadRequest() State {
	if ex.state != StatePending {
		return ex.state
	}
	err := ex.parse()
	if err == nil {
		ex.state = StateReady
		return ex.state
	}

	var pe *protocolError
	if errors.As(err, &pe) {
		ex.state = StateRejected
		ex.resetResponse()
		ex.status = pe.status
		if pe.body != "" {
			ex.respBody = Text(pe.body)
		}
		ex.processed = true
		ex.closeConn = true
		ex.report(pe.kind, pe.status, pe)
		return ex.state
	}

	ex.state = StateAborted
	ex.err = err
	ex.closeConn = true
	// A peer closing an idle connection is not a failure.
	idle := errors.Is(err, io.EOF) && ex.buf.end == 0 && ex.method == ""
	if !idle {
		ex.report(KindIO, 0, err)
	}
	return ex.state
}

func (ex *Exchange) parse() error {
	if err := ex.parseRequestLine(); err != nil {
		if errors.Is(err, errBufferFull) {
			return errURITooLong
		}
		return err
	}
	if err := ex.parseHeaders(); err != nil {
		if errors.Is(err, errBufferFull) {
			return errHeadTooBig
		}
		return err
	}
	if ex.proto == proto10 {
		ex.closeConn = !ex.header.hasToken(HeaderConnection, "keep-alive")
	} else {
		ex.closeConn = ex.header.hasToken(HeaderConnection, "close")
	}
	return ex.parseBody()
}

// next returns the byte at the cursor, reading more input when the buffered
// bytes are exhausted.
func (ex *Exchange) next() (byte, error) {
	if ex.pos == ex.buf.end {
		if err := ex.buf.fill(ex.conn); err != nil {
			return 0, err
		}
	}
	c := ex.buf.data[ex.pos]
	ex.pos++
	return c, nil
}

func (ex *Exchange) parseRequestLine() error {
	var c byte
	var err error
	// Empty lines before the request line are ignored.
	for {
		if c, err = ex.next(); err != nil {
			return err
		}
		if c != '\r' && c != '\n' {
			break
		}
	}

	start := ex.pos - 1
	for tokenChars[c] {
		if c, err = ex.next(); err != nil {
			return err
		}
	}
	if c != ' ' || ex.pos-1 == start {
		return errInvalidLine
	}
	ex.method = Method(ex.buf.data[start : ex.pos-1])

	if c, err = ex.next(); err != nil {
		return err
	}
	if c != '/' {
		return errInvalidLine
	}
	targetStart := ex.pos - 1

	path, term, err := ex.readPath()
	if err != nil {
		return err
	}
	if len(path) > 1 && path[1] == '/' {
		return errInvalidLine
	}
	ex.path = string(path)
	if term == '?' {
		if term, err = ex.readQuery(); err != nil {
			return err
		}
	}
	ex.target = string(ex.buf.data[targetStart : ex.pos-1])

	if term != ' ' {
		// CR or LF where the version is expected.
		return errVersion
	}
	return ex.readVersion()
}

// readPath decodes the path up to and including its terminator, which is
// returned: '?', SP, CR or LF.
func (ex *Exchange) readPath() ([]byte, byte, error) {
	path := make([]byte, 1, 64)
	path[0] = '/'
	for {
		c, err := ex.next()
		if err != nil {
			return nil, 0, err
		}
		switch {
		case pathChars[c]:
			path = append(path, c)
		case c == '%':
			if path, err = decodeEscape(ex.next, path); err != nil {
				return nil, 0, lineError(err)
			}
		case c == '?', c == ' ', c == '\r', c == '\n':
			return path, c, nil
		default:
			return nil, 0, errInvalidLine
		}
	}
}

// readQuery decodes query pairs into ex.query and returns the terminator.
func (ex *Exchange) readQuery() (byte, error) {
	var key, value []byte
	inValue := false
	flush := func() {
		if len(key) > 0 || inValue {
			ex.query.Add(string(key), string(value))
		}
		key, value, inValue = key[:0], value[:0], false
	}

	for {
		c, err := ex.next()
		if err != nil {
			return 0, err
		}
		dst := &key
		if inValue {
			dst = &value
		}
		switch {
		case c == '&':
			flush()
		case c == '=' && !inValue:
			inValue = true
		case c == '+':
			*dst = append(*dst, ' ')
		case c == '%':
			if *dst, err = decodeEscape(ex.next, *dst); err != nil {
				return 0, lineError(err)
			}
		case queryChars[c]:
			*dst = append(*dst, c)
		case c == ' ', c == '\r', c == '\n':
			flush()
			return c, nil
		default:
			return 0, errInvalidLine
		}
	}
}

func (ex *Exchange) readVersion() error {
	start := ex.pos
	for {
		c, err := ex.next()
		if err != nil {
			return err
		}
		switch c {
		case '\r':
			end := ex.pos - 1
			if c, err = ex.next(); err != nil {
				return err
			}
			if c != '\n' {
				return errInvalidLine
			}
			return ex.setProto(ex.buf.data[start:end])
		case '\n', ' ':
			return errInvalidLine
		}
		if ex.pos-start > maxVersionLen {
			return errInvalidLine
		}
	}
}

func (ex *Exchange) setProto(v []byte) error {
	switch string(v) {
	case proto11:
		ex.proto = proto11
	case proto10:
		ex.proto = proto10
	default:
		return errVersion
	}
	return nil
}

// lineError maps a percent-decoding failure to a 400; transport and buffer
// errors pass through.
func lineError(err error) error {
	if errors.Is(err, errInvalidEscape) {
		return errInvalidLine
	}
	return err
}

func (ex *Exchange) parseHeaders() error {
	var c byte
	var err error
	for {
		if c, err = ex.next(); err != nil {
			return err
		}
		if c == '\r' {
			if c, err = ex.next(); err != nil {
				return err
			}
			if c != '\n' {
				return errInvalidHead
			}
			return nil
		}

		nameStart := ex.pos - 1
		for tokenChars[c] {
			if c, err = ex.next(); err != nil {
				return err
			}
		}
		nameEnd := ex.pos - 1
		if c != ':' || nameEnd == nameStart {
			return errInvalidHead
		}

		if c, err = ex.next(); err != nil {
			return err
		}
		for c == ' ' || c == '\t' {
			if c, err = ex.next(); err != nil {
				return err
			}
		}
		valueStart := ex.pos - 1
		for c != '\r' {
			if !fieldChars[c] {
				return errInvalidHead
			}
			if c, err = ex.next(); err != nil {
				return err
			}
		}
		valueEnd := ex.pos - 1
		if c, err = ex.next(); err != nil {
			return err
		}
		if c != '\n' {
			return errInvalidHead
		}

		value := bytes.TrimRight(ex.buf.data[valueStart:valueEnd], " \t")
		name := canonicalHeaderBytes(ex.buf.data[nameStart:nameEnd])
		ex.header.Add(name, string(value))
	}
}

func (ex *Exchange) parseBody() error {
	if ex.header.Has(HeaderTransferEncoding) {
		return errChunkedBody
	}
	values := ex.header.Values(HeaderContentLength)
	if len(values) == 0 {
		ex.body = newMemoryBody(nil)
		return nil
	}
	size, err := parseContentLength(values)
	if err != nil {
		return err
	}
	if size > uint64(ex.engine.cfg.MaxBodySize) {
		return errBodyTooBig
	}
	if size == 0 {
		ex.body = newMemoryBody(nil)
		return nil
	}

	n := int(size)
	if n > ex.buf.limit-ex.pos {
		return ex.spool(int64(size))
	}
	if err := ex.buf.ensure(ex.pos + n); err != nil {
		return err
	}
	for ex.buf.end < ex.pos+n {
		if err := ex.buf.fill(ex.conn); err != nil {
			return err
		}
	}
	ex.body = newMemoryBody(ex.buf.data[ex.pos : ex.pos+n : ex.pos+n])
	ex.pos += n
	return nil
}

// parseContentLength parses every Content-Length value; differing values
// are a header error and overflow is a size-limit violation.
func parseContentLength(values []string) (uint64, error) {
	var size uint64
	for i, v := range values {
		n, err := parseLength(v)
		if err != nil {
			return 0, err
		}
		if i > 0 && n != size {
			return 0, errInvalidHead
		}
		size = n
	}
	return size, nil
}

func parseLength(s string) (uint64, error) {
	if s == "" {
		return 0, errInvalidHead
	}
	var n uint64
	for i := range len(s) {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, errInvalidHead
		}
		d := uint64(c - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, errBodyTooBig
		}
		n = n*10 + d
	}
	return n, nil
}

// spool streams a body that does not fit the buffer into a BodyFiles entry.
// The buffer doubles as the copy scratch; bytes read past the body stay in
// it as leftover input.
func (ex *Exchange) spool(size int64) error {
	files := ex.engine.files
	if files == nil {
		return errBodyTooBig
	}
	name, w, err := files.Create()
	if err != nil {
		return spoolError(err)
	}
	abort := func(err error) error {
		_ = w.Close()
		_ = files.Remove(name)
		return err
	}

	remaining := size
	if buffered := ex.buf.end - ex.pos; buffered > 0 {
		if _, err := w.Write(ex.buf.data[ex.pos:ex.buf.end]); err != nil {
			return abort(spoolError(err))
		}
		remaining -= int64(buffered)
	}
	ex.pos, ex.buf.end = 0, 0

	empty := 0
	for remaining > 0 {
		n, err := ex.conn.Read(ex.buf.data)
		if n > 0 {
			empty = 0
			take := int(min(int64(n), remaining))
			if _, werr := w.Write(ex.buf.data[:take]); werr != nil {
				return abort(spoolError(werr))
			}
			remaining -= int64(take)
			if remaining == 0 {
				ex.pos, ex.buf.end = take, n
				break
			}
		}
		if err != nil {
			return abort(err)
		}
		if n == 0 {
			if empty++; empty >= maxEmptyReads {
				return abort(io.ErrNoProgress)
			}
		}
	}
	if err := w.Close(); err != nil {
		_ = files.Remove(name)
		return spoolError(err)
	}
	ex.body = &FileBody{files: files, name: name, size: size}
	return nil
}
