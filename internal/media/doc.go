// Package media builds image records from files on disk.
//
// ExtractMetadata reads only what is needed: the image header for width,
// height and format, the file's size and modification time, and for PNG
// files the tEXt chunks with their generation parameters. Pixel data is
// never decoded.
//
// The package also renders metadata for people: FormatMetadata and the
// Export helpers write it to text files, and Stats summarizes a file for
// display.
package media
