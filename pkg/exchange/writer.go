package exchange

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TimeFormat is the IMF-fixdate layout used for the Date header.
const TimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// engineOwned headers are computed by the writer; handler values are dropped.
var engineOwned = map[HeaderName]bool{
	HeaderContentLength:    true,
	HeaderTransferEncoding: true,
	HeaderConnection:       true,
	HeaderDate:             true,
}

// WriteResponse serializes the staged response. It runs at most once and
// only after a successful or rejected parse.
func (ex *Exchange) WriteResponse() error {
	switch {
	case ex.written:
		return ErrAlreadyWritten
	case !ex.Serviceable():
		return ErrNotServiceable
	}
	ex.written = true

	if ex.listener != nil {
		ex.listener(ex)
	}
	if err := ex.writeResponse(); err != nil {
		ex.closeConn = true
		ex.report(KindWrite, ex.status, err)
		return err
	}
	return nil
}

func (ex *Exchange) writeResponse() error {
	if ex.status == 0 {
		if ex.respBody == nil {
			ex.status = StatusNoContent
		} else {
			ex.status = StatusOK
		}
	}

	switch ex.respBody.(type) {
	case nil, FixedBody, StreamBody, RenderBody:
	default:
		ex.fail(KindHandler, ErrUnknownBody)
	}

	allowed := bodyAllowed(ex.status)
	var stream io.ReadCloser
	if sb, ok := ex.respBody.(StreamBody); ok && allowed {
		rc, err := sb.Open()
		if err != nil {
			ex.fail(KindHandler, fmt.Errorf("open response stream: %w", err))
			allowed = true
		} else {
			stream = rc
			defer rc.Close()
		}
	}

	// HTTP/1.0 clients cannot parse chunked framing; such bodies are
	// delimited by closing the connection instead.
	_, fixed := ex.respBody.(FixedBody)
	chunked := ex.respBody != nil && !fixed
	if chunked && ex.proto == proto10 {
		ex.closeConn = true
	}

	bw := bufio.NewWriter(ex.conn)
	bw.WriteString("HTTP/1.1 ")
	bw.WriteString(strconv.Itoa(ex.status))
	bw.WriteByte(' ')
	bw.WriteString(StatusText(ex.status))
	bw.WriteString("\r\n")
	writeField(bw, HeaderDate, ex.engine.clock().UTC().Format(TimeFormat))

	hasType := false
	for _, f := range ex.respHdr.fields {
		if engineOwned[f.Name] || !IsToken(string(f.Name)) {
			continue
		}
		if f.Name == HeaderContentType {
			hasType = true
		}
		writeField(bw, f.Name, sanitizeHeaderValue(f.Value))
	}

	if allowed {
		if ex.respBody != nil && !hasType {
			if ct := ex.respBody.ContentType(); ct != "" {
				writeField(bw, HeaderContentType, sanitizeHeaderValue(ct))
			}
		}
		switch b := ex.respBody.(type) {
		case nil:
			writeField(bw, HeaderContentLength, "0")
		case FixedBody:
			writeField(bw, HeaderContentLength, strconv.Itoa(len(b.Bytes())))
		default:
			if ex.proto != proto10 {
				writeField(bw, HeaderTransferEncoding, "chunked")
			}
		}
	}
	if ex.closeConn {
		writeField(bw, HeaderConnection, "close")
	} else if ex.proto == proto10 {
		writeField(bw, HeaderConnection, "keep-alive")
	}
	bw.WriteString("\r\n")

	if !allowed || ex.method == MethodHead {
		return bw.Flush()
	}

	var dst io.Writer = bw
	var cw *chunkedWriter
	if chunked && ex.proto != proto10 {
		cw = &chunkedWriter{w: bw}
		dst = cw
	}
	switch b := ex.respBody.(type) {
	case FixedBody:
		if _, err := bw.Write(b.Bytes()); err != nil {
			return err
		}
	case StreamBody:
		if _, err := io.Copy(dst, stream); err != nil {
			return err
		}
	case RenderBody:
		if err := b.Render(dst); err != nil {
			return fmt.Errorf("render response body: %w", err)
		}
	}
	if cw != nil {
		if err := cw.Close(); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// fail replaces the staged response with a generic 500 and closes the
// connection after writing.
func (ex *Exchange) fail(kind Kind, err error) {
	ex.respHdr.reset()
	ex.status = StatusInternalServerError
	ex.respBody = Text(bodyInternalError)
	ex.processed = true
	ex.closeConn = true
	ex.report(kind, StatusInternalServerError, err)
}

func writeField(bw *bufio.Writer, name HeaderName, value string) {
	bw.WriteString(string(name))
	bw.WriteString(": ")
	bw.WriteString(value)
	bw.WriteString("\r\n")
}

// sanitizeHeaderValue drops CR, LF and other control bytes except HTAB.
func sanitizeHeaderValue(v string) string {
	clean := true
	for i := 0; i < len(v); i++ {
		if !fieldChars[v[i]] {
			clean = false
			break
		}
	}
	if clean {
		return v
	}
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c < 0x20 && c != '\t' || c == 0x7f {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// chunkedWriter frames writes as HTTP/1.1 chunks.
type chunkedWriter struct {
	w io.Writer
}

func (c *chunkedWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := fmt.Fprintf(c.w, "%x\r\n", len(p)); err != nil {
		return 0, err
	}
	if _, err := c.w.Write(p); err != nil {
		return 0, err
	}
	if _, err := io.WriteString(c.w, "\r\n"); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close writes the terminating zero-length chunk.
func (c *chunkedWriter) Close() error {
	_, err := io.WriteString(c.w, "0\r\n\r\n")
	return err
}
