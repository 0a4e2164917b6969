// Package pngtext reads the chunk structure of PNG files and decodes the
// generation parameters that image tools store in tEXt chunks.
//
// A ChunkReader yields every chunk of a file lazily and exactly once:
//
//	cr, err := pngtext.Open(path)
//	if err != nil {
//	    return err // *FormatError for a bad signature
//	}
//	defer cr.Close()
//	for cr.Next() {
//	    c := cr.Chunk()
//	    if c.IsText() {
//	        key, value, ok := pngtext.DecodeText(c.Data)
//	        ...
//	    }
//	}
//	if err := cr.Err(); err != nil {
//	    // truncated or corrupt chunk, everything before it was valid
//	}
//
// The "parameters" text is parsed with ParseParameters into a flat
// key/value map holding "Positive Prompt", "Negative Prompt" and one entry
// per comma separated generation setting.
package pngtext
