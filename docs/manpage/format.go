package manpage

// FormatHelp is the plain-text reference of the template language, printed
// by -help-format and embedded in the man page.
const FormatHelp = `Templates

  A template is literal text with replacement fields in braces. Literal
  text is copied to the output unchanged; write {{ and }} for literal
  braces. A field has the form

      {keyword[accessors][!conversion][:format]}

Keywords

  mem      memory usage
  swap     swap usage
  loadavg  load average, relative to the number of CPU cores
  cpu      CPU usage of all cores
  net      network load, relative to the fastest speed seen in the history

  A bare keyword draws the whole series: exactly max-points glyphs, newest
  on the left. Missing history is drawn as blanks.

Indexes and slices

  [n]          one reading, 0 is the newest
  [lo:hi]      readings lo up to but not including hi
  [lo:hi:step] every step-th reading; a negative step reverses
  Bounds may be omitted or negative: {mem[:]} equals {mem}, and
  {mem[4::-1]} shows the five newest readings oldest first.

Attributes

  loadavg  .1 .5 .15       1, 5 or 15 minute load average (default .1)
  mem      .total .free    kB, printed as numbers
  swap     .total .free    kB, printed as numbers
  cpu      .total .idle    ticks since the previous reading
  net      .<interface>    one interface, e.g. .eth0
           .0 .1 ...       the n-th interface in /proc/net/dev order
           .rx .tx         downlink or uplink load
           .rx_speed       downlink or uplink speed; select a single reading
           .tx_speed       first, e.g. {net[0].rx_speed}
  interface  .rx .tx .rx_speed .tx_speed, plus .rx_bytes .tx_bytes
             (bytes since the previous reading)

  Attributes and indexes may come in any order: {loadavg[0].5} and
  {loadavg.5[0]} are the same reading.

Conversions

  Speeds accept one conversion character after '!':
  k  KiB/s (default)
  m  MiB/s
  g  GiB/s
  Any other value with a conversion is an error.

Format specifications

  After ':' comes a format specification of the form

      [[fill]align][sign][#][0][width][,|_][.precision][type]

  align is < > ^ or =, sign is + - or space. Speeds take the float types
  e E f F g G %; counts take d b o x X and the float types; glyphs take s or
  nothing, and a precision truncates them.

Examples

  {mem}                     memory history, max-points glyphs wide
  {mem[0]}                  current memory usage, one glyph
  {mem[0:5]}                the five newest memory readings
  {mem[::-1]}               memory history with the newest on the right
  {loadavg.5[0]}            current 5 minute load average
  {net.eth0.rx}             downlink history of eth0
  {net[0].rx_speed:.2f}     current downlink speed of all interfaces in KiB/s
  {net[0].eth0.rx_speed!m:.2f} MiB/s
  {mem[0]:>3}               one glyph right-aligned in three columns
  Mem:{mem[:3]}|Swap:{swap[:3]}|CPU:{cpu[:3]}|Net:{net[:3]}
`
