/*
 * doc.go, part of godem.
 *
 *
 * Copyright 2024 The godem developers
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation, either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Lesser General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public
 * License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*
Package ctf reads and writes CTF (compressed trajectory frames) files, a
simple text trajectory format for coarse-grained models. Coordinates are
stored as integers (the value in nm times 10^prec, with prec=3 unless the
header says otherwise) and the whole stream is compressed. The compression
scheme is chosen from the last letter of the file name: 'f' for zstd (the
default), 'z' for gzip, 'l' for LZW and 'r' for flate.

A CTF file starts with any number of key=value metadata lines, then a line
"** N" where N is the number of sites per frame, then the frames. A frame
is N lines of 3 integers each, terminated by a line starting with '*',
optionally followed on the same line by the 9 components of the box
vectors.
*/
package ctf
