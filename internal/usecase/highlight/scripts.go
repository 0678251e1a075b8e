package highlight

import (
	"encoding/json"
	"fmt"

	"browsing-agent/internal/domain/entity"
)

const highlightTemplate = `() => {
	function isElementVisible(element) {
		const rect = element.getBoundingClientRect();
		if (rect.width <= 0 || rect.height <= 0 ||
			rect.top >= (window.innerHeight || document.documentElement.clientHeight) ||
			rect.bottom <= 0 ||
			rect.left >= (window.innerWidth || document.documentElement.clientWidth) ||
			rect.right <= 0) {
			return false;
		}
		let parent = element;
		while (parent) {
			const style = window.getComputedStyle(parent);
			if (style.display === 'none' || style.visibility === 'hidden') {
				return false;
			}
			parent = parent.parentElement;
		}
		return true;
	}

	document.querySelectorAll('.highlight-label').forEach(label => label.remove());
	document.querySelectorAll('.highlighted-element, [data-highlighted]').forEach(element => {
		element.classList.remove('highlighted-element');
		element.removeAttribute('data-highlighted');
	});

	let styleElement = document.getElementById('highlight-style');
	if (!styleElement) {
		styleElement = document.createElement('style');
		styleElement.id = 'highlight-style';
		document.head.appendChild(styleElement);
	}
	styleElement.textContent = %s;

	function label(element, index) {
		element.classList.add('highlighted-element');
		const node = document.createElement('div');
		node.className = 'highlight-label';
		node.textContent = index.toString();
		node.style.display = 'block';
		const rect = element.getBoundingClientRect();
		node.style.top = (rect.top + window.scrollY - 25) + 'px';
		node.style.left = (rect.left + window.scrollX) + 'px';
		document.body.appendChild(node);
	}

	let index = 1;
	document.querySelectorAll(%s).forEach(element => {
		if (!element.dataset.highlighted && isElementVisible(element)) {
			element.dataset.highlighted = 'true';
			label(element, index++);
		}
	});
	return index - 1;
}`

const highlightStyle = `
.highlighted-element {
	border: 2px solid red !important;
	position: relative;
	box-sizing: border-box;
}
.highlight-label {
	position: absolute;
	z-index: 2147483647;
	background: yellow;
	color: black;
	font-size: 25px;
	padding: 3px 5px;
	border: 1px solid black;
	border-radius: 3px;
	white-space: nowrap;
	box-shadow: 0px 0px 2px #000;
	top: -25px;
	left: 0;
	display: none;
}
`

const clearTemplate = `() => {
	document.querySelectorAll('.highlight-label').forEach(label => label.remove());
	const style = document.getElementById('highlight-style');
	if (style) {
		style.remove();
	}
	document.querySelectorAll(%s).forEach(element => {
		element.style.border = '';
		element.classList.remove('highlighted-element');
		element.removeAttribute('data-highlighted');
	});
}`

func highlightScript(selector string) string {
	return fmt.Sprintf(highlightTemplate, jsString(highlightStyle), jsString(selector))
}

func clearScript() string {
	return fmt.Sprintf(clearTemplate, jsString(entity.CleanupSelector))
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
