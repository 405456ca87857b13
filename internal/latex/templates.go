// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import "github.com/pdiddy/resume-engine/pkg/types"

// DefaultTemplate is used when a request supplies no template.
var DefaultTemplate = types.Template{
	ID:          "default",
	Name:        "Default",
	Description: "Plain article layout with a centered title.",
	Content: `\documentclass[11pt]{article}
\usepackage[margin=1in]{geometry}
\usepackage{enumitem}
\usepackage{hyperref}
\usepackage{parskip}
\pagestyle{empty}

\begin{document}

\begin{center}
{\Large \textbf{Professional Resume}}
\end{center}

\vspace{5mm}

{{RESUME_CONTENT}}

\end{document}`,
}

// Builtins returns the built-in templates in display order. The slice is
// freshly allocated on each call.
func Builtins() []types.Template {
	return []types.Template{
		{
			ID:          "classic",
			Name:        "Classic",
			Description: "Clean, traditional layout with bold section headers.",
			Content: `\documentclass[11pt]{article}
\usepackage[margin=1in]{geometry}
\usepackage{enumitem}
\usepackage{parskip}
\usepackage{titlesec}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}

% Configure section formatting
\titleformat{\section*}{\large\bfseries}{}{0pt}{}
\titlespacing*{\section*}{0pt}{12pt}{6pt}

% Configure itemize spacing
\setlist[itemize]{leftmargin=*, itemsep=2pt, parsep=0pt, topsep=4pt}

\pagestyle{empty}
\begin{document}

{{RESUME_CONTENT}}

\end{document}`,
		},
		{
			ID:          "modern",
			Name:        "Modern",
			Description: "Modern look with colored section titles.",
			Content: `\documentclass[11pt]{article}
\usepackage[margin=1in]{geometry}
\usepackage{xcolor}
\usepackage{enumitem}
\usepackage{parskip}
\usepackage{titlesec}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}

% Define colors
\definecolor{sectioncolor}{RGB}{41,128,185}
\definecolor{textcolor}{RGB}{64,64,64}

% Configure section formatting
\titleformat{\section*}{\large\bfseries\color{sectioncolor}}{}{0pt}{}
\titlespacing*{\section*}{0pt}{12pt}{6pt}

% Configure itemize spacing
\setlist[itemize]{leftmargin=*, itemsep=2pt, parsep=0pt, topsep=4pt}

\color{textcolor}
\pagestyle{empty}
\begin{document}

{{RESUME_CONTENT}}

\end{document}`,
		},
		{
			ID:          "minimalist",
			Name:        "Minimalist",
			Description: "Minimal, single-column, no extra formatting.",
			Content: `\documentclass[11pt]{article}
\usepackage[margin=1in]{geometry}
\usepackage{enumitem}
\usepackage{parskip}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}

% Simple section formatting
\renewcommand{\section}[1]{\vspace{8pt}\noindent\textbf{\large #1}\vspace{4pt}}

% Configure itemize spacing
\setlist[itemize]{leftmargin=*, itemsep=1pt, parsep=0pt, topsep=2pt}

\pagestyle{empty}
\begin{document}

{{RESUME_CONTENT}}

\end{document}`,
		},
		{
			ID:          "sidebar",
			Name:        "Sidebar",
			Description: "Two-column layout with sidebar for contact info.",
			Content: `\documentclass[11pt]{article}
\usepackage[margin=0.75in]{geometry}
\usepackage{enumitem}
\usepackage{parskip}
\usepackage{titlesec}
\usepackage{xcolor}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}

% Define colors
\definecolor{sidebarcolor}{RGB}{240,240,240}
\definecolor{sectioncolor}{RGB}{41,128,185}

% Configure section formatting
\titleformat{\section*}{\large\bfseries\color{sectioncolor}}{}{0pt}{}
\titlespacing*{\section*}{0pt}{8pt}{4pt}

% Configure itemize spacing
\setlist[itemize]{leftmargin=*, itemsep=1pt, parsep=0pt, topsep=2pt}

\pagestyle{empty}
\begin{document}

\noindent
\begin{minipage}[t]{0.3\textwidth}
\vspace{0pt}
\colorbox{sidebarcolor}{\parbox{\textwidth}{\vspace{4pt}
\textbf{\large Contact}\\[4pt]
{{contact}}
\vspace{4pt}}}
\end{minipage}
\hfill
\begin{minipage}[t]{0.65\textwidth}
\vspace{0pt}
{{RESUME_CONTENT}}
\end{minipage}

\end{document}`,
		},
		{
			ID:          "boxed",
			Name:        "Boxed",
			Description: "Professional layout with subtle borders.",
			Content: `\documentclass[11pt]{article}
\usepackage[margin=1in]{geometry}
\usepackage{enumitem}
\usepackage{parskip}
\usepackage{titlesec}
\usepackage{xcolor}
\usepackage{mdframed}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}

% Define colors
\definecolor{bordercolor}{RGB}{200,200,200}
\definecolor{sectioncolor}{RGB}{41,128,185}

% Configure section formatting
\titleformat{\section*}{\large\bfseries\color{sectioncolor}}{}{0pt}{}
\titlespacing*{\section*}{0pt}{8pt}{4pt}

% Configure itemize spacing
\setlist[itemize]{leftmargin=*, itemsep=2pt, parsep=0pt, topsep=4pt}

% Configure frame style
\mdfdefinestyle{resumebox}{%
  linecolor=bordercolor,
  linewidth=1pt,
  topline=true,
  bottomline=true,
  leftline=true,
  rightline=true,
  innertopmargin=8pt,
  innerbottommargin=8pt,
  innerleftmargin=8pt,
  innerrightmargin=8pt
}

\pagestyle{empty}
\begin{document}

\begin{mdframed}[style=resumebox]
{{RESUME_CONTENT}}
\end{mdframed}

\end{document}`,
		},
	}
}

// LookupBuiltin returns the built-in template whose ID or name matches key.
func LookupBuiltin(key string) (types.Template, bool) {
	for _, t := range Builtins() {
		if t.ID == key || t.Name == key {
			return t, true
		}
	}
	return types.Template{}, false
}
